package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/procurement-service/internal/repository"
	"github.com/spec-kit/procurement-service/internal/workflow"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// rejectionStatus maps workflow rejection reasons to HTTP statuses.
var rejectionStatus = map[workflow.Reason]int{
	workflow.ReasonUnknownState:      http.StatusInternalServerError,
	workflow.ReasonIllegalTransition: http.StatusConflict,
	workflow.ReasonForbidden:         http.StatusForbidden,
	workflow.ReasonNotOwner:          http.StatusForbidden,
	workflow.ReasonInvalidPayload:    http.StatusBadRequest,
}

// ToDomainError converts generic errors to DomainError: workflow
// rejections keep their reason as the error code, repository sentinels
// map to the usual HTTP statuses, everything else is internal.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var rejection *workflow.Rejection
	if errors.As(err, &rejection) {
		status, ok := rejectionStatus[rejection.Reason]
		if !ok {
			status = http.StatusBadRequest
		}
		return &DomainError{
			Code:       string(rejection.Reason),
			Message:    rejection.Message,
			HTTPStatus: status,
		}
	}

	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return NewNotFound("user", nil).(*DomainError)
	case errors.Is(err, repository.ErrTicketNotFound):
		return NewNotFound("ticket", nil).(*DomainError)
	case errors.Is(err, repository.ErrLoginTaken):
		return NewConflict("login already taken", nil).(*DomainError)
	case errors.Is(err, repository.ErrTicketConflict):
		return NewConflict("ticket was modified concurrently, retry", nil).(*DomainError)
	case errors.Is(err, repository.ErrUserReferenced):
		return NewConflict("user is referenced by tickets", nil).(*DomainError)
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
