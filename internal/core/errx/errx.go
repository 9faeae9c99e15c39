package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// SystemErrorMessage is a user-facing fallback when internal errors occur.
const SystemErrorMessage = "internal server error"

// Error kinds. Match them with errors.Is.
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrStore          = errors.New("data store failure")
	ErrEmptyCart      = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutFailed = errors.New("checkout failed")
	ErrAuth           = errors.New("authentication failed")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

// AppError wraps an underlying error with a kind, an HTTP status and a safe message.
type AppError struct {
	Kind    error
	Err     error
	Status  int
	Message string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *AppError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// New creates a new AppError with the provided information.
func New(kind, err error, status int, message string) *AppError {
	return &AppError{Kind: kind, Err: err, Status: status, Message: message}
}

func Unauthorized(message string) error {
	return New(ErrUnauthorized, nil, http.StatusUnauthorized, message)
}

func Forbidden(message string) error {
	return New(ErrForbidden, nil, http.StatusForbidden, message)
}

// Store wraps a data store failure for the named operation.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return New(ErrStore, err, http.StatusBadGateway, op+" failed")
}

func EmptyCart() error {
	return New(ErrEmptyCart, nil, http.StatusBadRequest, ErrEmptyCart.Error())
}

// CheckoutFailed carries the payment provider's message to the caller.
func CheckoutFailed(providerMessage string, err error) error {
	if providerMessage == "" {
		providerMessage = "payment provider did not return a checkout session"
	}
	return New(ErrCheckoutFailed, err, http.StatusBadGateway, providerMessage)
}

// Auth keeps the identity failure message verbatim for the user.
func Auth(message string, err error) error {
	return New(ErrAuth, err, http.StatusUnauthorized, message)
}

func Invalid(message string) error {
	return New(ErrInvalidInput, nil, http.StatusBadRequest, message)
}

func NotFound(message string) error {
	return New(ErrNotFound, nil, http.StatusNotFound, message)
}

func Conflict(message string) error {
	return New(ErrConflict, nil, http.StatusConflict, message)
}

// StatusOf returns the HTTP status carried by err, 500 when it has none.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-facing message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}
