package approvaltokenerrors

import (
	"go-leave/internal/shared/apperror"
	"net/http"
)

var (
	ErrTokenInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid or expired approval token",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Approver role must be hod or admin",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrTokenCollision = apperror.New(
		apperror.CodeInternalError,
		"Could not issue a unique approval token",
		http.StatusInternalServerError,
	)
)
