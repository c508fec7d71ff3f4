package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError provides a structured error that can be rendered to API consumers.
// Code is the machine-readable discriminant consumed by client pages; Fields
// carries per-field validation detail when present.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	StatusCode int               `json:"-"`
	Fields     map[string]string `json:"-"`
	Internal   error             `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Common errors exposed to the rest of the application.
var (
	// ErrUnauthorized covers requests that carry no session cookie at all.
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Not signed in",
		StatusCode: http.StatusUnauthorized,
	}

	// ErrInvalidSession covers requests whose cookie failed token verification.
	// Same code as ErrUnauthorized; the message is the only distinction surfaced.
	ErrInvalidSession = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid session, please re-login",
		StatusCode: http.StatusUnauthorized,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Permission denied",
		StatusCode: http.StatusForbidden,
	}

	// ErrInvalidCredentials is deliberately identical for unknown accounts and
	// wrong passwords to avoid account enumeration.
	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Incorrect email or password",
		StatusCode: http.StatusUnauthorized,
	}

	ErrUserAlreadyExists = &AppError{
		Code:       "USER_ALREADY_EXISTS",
		Message:    "This email address is already registered",
		StatusCode: http.StatusConflict,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "User does not exist",
		StatusCode: http.StatusNotFound,
	}

	ErrAlreadyVerified = &AppError{
		Code:       "ALREADY_VERIFIED",
		Message:    "Email is already verified, please sign in",
		StatusCode: http.StatusBadRequest,
	}

	ErrVerificationNotFound = &AppError{
		Code:       "VERIFICATION_NOT_FOUND",
		Message:    "No valid verification code, please request a new one",
		StatusCode: http.StatusBadRequest,
	}

	ErrVerificationExpired = &AppError{
		Code:       "VERIFICATION_EXPIRED",
		Message:    "Verification code has expired, please request a new one",
		StatusCode: http.StatusBadRequest,
	}

	ErrVerificationCodeInvalid = &AppError{
		Code:       "VERIFICATION_CODE_INVALID",
		Message:    "Incorrect verification code",
		StatusCode: http.StatusBadRequest,
	}

	ErrInvalidCurrentPassword = &AppError{
		Code:       "INVALID_CURRENT_PASSWORD",
		Message:    "Current password is incorrect",
		StatusCode: http.StatusBadRequest,
	}

	ErrEmailAlreadyInUse = &AppError{
		Code:       "EMAIL_ALREADY_IN_USE",
		Message:    "The new email address is already taken by another account",
		StatusCode: http.StatusConflict,
	}

	// ErrNotAdminUser leaks account existence/role on the admin reset flow.
	// Kept as-is on purpose; the user-facing flow stays silent instead.
	ErrNotAdminUser = &AppError{
		Code:       "NOT_ADMIN_USER",
		Message:    "This email does not belong to an administrator account",
		StatusCode: http.StatusBadRequest,
	}

	ErrPlanNotFound = &AppError{
		Code:       "PLAN_NOT_FOUND",
		Message:    "Membership plan not found or inactive",
		StatusCode: http.StatusNotFound,
	}

	ErrHasData = &AppError{
		Code:       "HAS_DATA",
		Message:    "Record has dependent orders or subscriptions and cannot be deleted",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}

	ErrRateLimit = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests, please slow down",
		StatusCode: http.StatusTooManyRequests,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap turns any error into an AppError while keeping the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}

// NewInvalidInput flags malformed non-struct input (missing path params and the like).
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:       "INVALID_INPUT",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewValidation wraps structural validation failures with field-level detail.
func NewValidation(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Fields:     fields,
	}
}
