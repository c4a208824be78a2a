package balanceerrors

import (
	"go-leave/internal/shared/apperror"
	"net/http"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"Days must be positive",
		http.StatusBadRequest,
	)
)
