package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be a positive number",
		http.StatusBadRequest,
	)
	ErrInvalidGateStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be Approved or Rejected",
		http.StatusBadRequest,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"action must be approve or reject",
		http.StatusBadRequest,
	)
	ErrNoEmployeeProfile = apperror.New(
		apperror.CodeForbidden,
		"your account is not linked to an employee record",
		http.StatusForbidden,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrNotAuthorizedApprover = apperror.New(
		apperror.CodeForbidden,
		"you are not authorized to approve this leave request",
		http.StatusForbidden,
	)
	ErrHodRejected = apperror.New(
		apperror.CodeForbidden,
		"HOD has rejected this leave request; the employee must resubmit",
		http.StatusForbidden,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"you can only manage your own leave requests",
		http.StatusForbidden,
	)
	ErrNotEditable = apperror.New(
		apperror.CodeForbidden,
		"leave request can no longer be changed once an approver has acted",
		http.StatusForbidden,
	)
	ErrEmailActionInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"this link has already been used or is invalid",
		http.StatusBadRequest,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"this leave request has already been processed",
		http.StatusBadRequest,
	)
	ErrApproverRoleMismatch = apperror.New(
		apperror.CodeForbidden,
		"your role no longer allows acting on this request",
		http.StatusForbidden,
	)
)
