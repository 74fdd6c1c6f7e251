package auth

import (
	stderrors "errors"
	"fmt"

	"github.com/felixgeelhaar/taskflow/internal/errors"
)

// Error codes for authentication failures
const (
	// Account errors
	ErrInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	ErrEmailTaken         = "AUTH_EMAIL_TAKEN"
	ErrInvalidEmail       = "AUTH_INVALID_EMAIL"
	ErrWeakPassword       = "AUTH_WEAK_PASSWORD"

	// Token errors
	ErrTokenMissing       = "AUTH_TOKEN_MISSING"
	ErrTokenInvalid       = "AUTH_TOKEN_INVALID"
	ErrTokenExpired       = "AUTH_TOKEN_EXPIRED"
	ErrTokenMalformed     = "AUTH_TOKEN_MALFORMED"
	ErrTokenSigningFailed = "AUTH_TOKEN_SIGNING_FAILED"
)

// AuthError represents an authentication error with code and context.
type AuthError struct {
	// Code is the error code (e.g., AUTH_TOKEN_EXPIRED)
	Code string

	// Message is a human-readable error message
	Message string

	// Context provides additional details about the error
	Context map[string]any

	// Cause is the underlying error that caused this error
	Cause error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// NewError creates a new AuthError.
func NewError(code, message string, context map[string]any) *AuthError {
	return &AuthError{Code: code, Message: message, Context: context}
}

// WrapError wraps an existing error with an AuthError.
func WrapError(code, message string, cause error, context map[string]any) *AuthError {
	return &AuthError{Code: code, Message: message, Context: context, Cause: cause}
}

// IsAuthError checks if an error chain holds an AuthError with the given code.
func IsAuthError(err error, code string) bool {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr.Code == code
	}
	return false
}

// ToTaskflowError converts an authentication failure into the structured
// error the API and logs work with. Non-auth errors become internal errors.
func ToTaskflowError(err error) *errors.TaskflowError {
	var authErr *AuthError
	if !stderrors.As(err, &authErr) {
		return errors.NewInternalError(err)
	}

	switch authErr.Code {
	case ErrInvalidCredentials:
		return errors.NewInvalidCredentialsError()
	case ErrEmailTaken:
		return errors.New(errors.ErrCodeEmailTaken, authErr.Message).
			WithSuggestion("Log in with the existing account instead")
	case ErrWeakPassword:
		return errors.New(errors.ErrCodeWeakPassword, authErr.Message)
	case ErrInvalidEmail:
		return errors.New(errors.ErrCodeBadRequest, authErr.Message)
	case ErrTokenMissing, ErrTokenInvalid, ErrTokenExpired, ErrTokenMalformed:
		return errors.NewUnauthenticatedError(authErr.Message)
	default:
		return errors.NewInternalError(authErr)
	}
}
