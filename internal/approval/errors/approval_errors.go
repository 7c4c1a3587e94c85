package approvalerrors

import (
	"net/http"

	"go-offboard/internal/shared/apperror"
)

var (
	ErrTemplateNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval template not found",
		http.StatusNotFound,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval request not found",
		http.StatusNotFound,
	)
	ErrInvalidState = apperror.New(
		apperror.CodeInvalidState,
		"approval request does not accept this action in its current status",
		http.StatusBadRequest,
	)
	ErrUnauthorizedApprover = apperror.New(
		apperror.CodeForbidden,
		"approver is not eligible at the current approval level",
		http.StatusForbidden,
	)
	ErrApproverNotFound = apperror.New(
		apperror.CodeNotFound,
		"approver not found at the current approval level",
		http.StatusNotFound,
	)
	ErrNoEscalationPath = apperror.New(
		apperror.CodeInvalidState,
		"current approval level has no escalation target",
		http.StatusBadRequest,
	)
	ErrDuplicateApproval = apperror.New(
		apperror.CodeConflict,
		"approver has already approved at the current level",
		http.StatusConflict,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required when rejecting an approval request",
		http.StatusBadRequest,
	)
	ErrInvalidTemplate = apperror.New(
		apperror.CodeInvalidInput,
		"approval template definition is invalid",
		http.StatusBadRequest,
	)
)
