package approvererrors

import (
	"net/http"

	"go-offboard/internal/shared/apperror"
)

var (
	ErrApproverNotFound = apperror.New(
		apperror.CodeNotFound,
		"approver not found",
		http.StatusNotFound,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be one of HR, IT, Legal, Finance, Manager, Executive",
		http.StatusBadRequest,
	)
	ErrApproverAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"approver with this email already exists",
		http.StatusConflict,
	)
	ErrInvalidDelegate = apperror.New(
		apperror.CodeInvalidInput,
		"delegate_to must reference an existing approver",
		http.StatusBadRequest,
	)
)
