package sessionerrors

import (
	"net/http"

	"go-offboard/internal/shared/apperror"
)

var (
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"offboarding session not found",
		http.StatusNotFound,
	)
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"offboarding task not found",
		http.StatusNotFound,
	)
	ErrSessionNotActive = apperror.New(
		apperror.CodeInvalidState,
		"offboarding session is not active",
		http.StatusBadRequest,
	)
	ErrSessionAlreadyActive = apperror.New(
		apperror.CodeConflict,
		"employee already has an active offboarding session",
		http.StatusConflict,
	)
	ErrTaskAlreadyStarted = apperror.New(
		apperror.CodeInvalidState,
		"offboarding task has already been started",
		http.StatusBadRequest,
	)
	ErrTaskNotCompletable = apperror.New(
		apperror.CodeInvalidState,
		"offboarding task cannot be completed in its current status",
		http.StatusBadRequest,
	)
	ErrNoMatchingTemplate = apperror.New(
		apperror.CodeInvalidState,
		"no approval template matches the task's department and type",
		http.StatusBadRequest,
	)
	ErrApprovalNotGranted = apperror.New(
		apperror.CodeInvalidState,
		"linked approval request has not been approved",
		http.StatusBadRequest,
	)
	ErrNoTasks = apperror.New(
		apperror.CodeInvalidInput,
		"an offboarding session needs at least one task",
		http.StatusBadRequest,
	)
)
