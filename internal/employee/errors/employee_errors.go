package employeeerrors

import (
	"go-leave/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrApproverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Approver not found",
		http.StatusNotFound,
	)
	ErrHodNotFound = apperror.New(
		apperror.CodeNotFound,
		"No head of department found for employee",
		http.StatusNotFound,
	)
	ErrAssignedManagerNotHod = apperror.New(
		apperror.CodeInvalidState,
		"Assigned manager is not a head of department",
		http.StatusUnprocessableEntity,
	)
)
