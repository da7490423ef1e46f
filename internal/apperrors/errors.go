package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error kinds. Services wrap one of these in an *Error so handlers can map
// the failure to a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrAuth         = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConfig       = errors.New("configuration error")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error   { return New(ErrValidation, message) }
func Conflict(message string) *Error     { return New(ErrConflict, message) }
func NotFound(message string) *Error     { return New(ErrNotFound, message) }
func InvalidState(message string) *Error { return New(ErrInvalidState, message) }
func Auth(message string) *Error         { return New(ErrAuth, message) }
func Forbidden(message string) *Error    { return New(ErrForbidden, message) }
func Config(message string) *Error       { return New(ErrConfig, message) }

// StatusCode maps an error to its HTTP status. Unknown errors are 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidState):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a caller. Config errors and
// anything untyped collapse to the fallback.
func PublicMessage(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && !errors.Is(err, ErrConfig) {
		return appErr.Message
	}
	return fallback
}
