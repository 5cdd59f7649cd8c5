package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Ledger errors. Each one is returned wrapped with context via fmt.Errorf("%w: ...").
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAccountNotActive    = errors.New("account not active")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrSameAccount         = errors.New("source and destination account are the same")
	ErrBelowMinimumAmount  = errors.New("amount below minimum")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrBusy                = errors.New("account busy, retry later")
)

// ErrDuplicateReference is raised when a reference was already committed. The
// processor turns a repeat of the same request into a replay; a reference
// reused by a different request reaches callers as a conflict.
var ErrDuplicateReference = errors.New("duplicate transaction reference")

var (
	ErrInvalidState = errors.New("invalid state for operation")
	ErrCancelled    = errors.New("request cancelled")
	// ErrConflict signals a failed optimistic version check in the store.
	ErrConflict     = errors.New("concurrent modification")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries an HTTP-ish status code together with the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// ErrInternal is used when the storage layer fails in an unexpected way.
var ErrInternal = errors.New("internal error")

var statusByError = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrDestinationNotFound, http.StatusNotFound},
	{ErrValidation, http.StatusBadRequest},
	{ErrInvalidAmount, http.StatusBadRequest},
	{ErrSameAccount, http.StatusBadRequest},
	{ErrBelowMinimumAmount, http.StatusBadRequest},
	{ErrInvalidAccountType, http.StatusBadRequest},
	{ErrInsufficientFunds, http.StatusUnprocessableEntity},
	{ErrAccountNotActive, http.StatusUnprocessableEntity},
	{ErrInvalidState, http.StatusConflict},
	{ErrDuplicate, http.StatusConflict},
	{ErrDuplicateReference, http.StatusConflict},
	{ErrConflict, http.StatusConflict},
	{ErrCancelled, http.StatusConflict},
	{ErrBusy, http.StatusServiceUnavailable},
	{ErrUnauthorized, http.StatusUnauthorized},
}

// HTTPStatus maps an error chain onto a response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code > 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
