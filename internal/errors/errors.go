package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Scheduling errors (SCHED-001 to SCHED-099)
	ErrCodeCycleDetected    ErrorCode = "SCHED-001"
	ErrCodeDuplicateTask    ErrorCode = "SCHED-002"
	ErrCodeScheduleInvalid  ErrorCode = "SCHED-003"
	ErrCodeTaskFileNotFound ErrorCode = "SCHED-004"

	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeUnauthenticated    ErrorCode = "AUTH-001"
	ErrCodeInvalidCredentials ErrorCode = "AUTH-002"
	ErrCodeEmailTaken         ErrorCode = "AUTH-003"
	ErrCodeWeakPassword       ErrorCode = "AUTH-004"
	ErrCodeForbidden          ErrorCode = "AUTH-005"

	// Project errors (PROJECT-001 to PROJECT-099)
	ErrCodeProjectNotFound ErrorCode = "PROJECT-001"
	ErrCodeProjectInvalid  ErrorCode = "PROJECT-002"

	// Task errors (TASK-001 to TASK-099)
	ErrCodeTaskNotFound ErrorCode = "TASK-001"
	ErrCodeTaskInvalid  ErrorCode = "TASK-002"

	// Request errors (REQ-001 to REQ-099)
	ErrCodeBadRequest       ErrorCode = "REQ-001"
	ErrCodeRequestSchema    ErrorCode = "REQ-002"
	ErrCodeMethodNotAllowed ErrorCode = "REQ-003"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid   ErrorCode = "CONFIG-001"
	ErrCodeConfigUnmarshal ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound   ErrorCode = "IO-001"
	ErrCodeFileReadFailed ErrorCode = "IO-002"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL-001"
)

// TaskflowError represents an enhanced error with code, suggestions, and documentation
type TaskflowError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *TaskflowError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)

	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			fmt.Fprintf(&b, "\n  • %s", suggestion)
		}
	}

	if e.DocsURL != "" {
		fmt.Fprintf(&b, "\n\nDocumentation: %s", e.DocsURL)
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *TaskflowError) Unwrap() error {
	return e.Cause
}

// New creates a new TaskflowError
func New(code ErrorCode, message string) *TaskflowError {
	return &TaskflowError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new TaskflowError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *TaskflowError {
	return &TaskflowError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *TaskflowError) WithSuggestion(suggestion string) *TaskflowError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *TaskflowError) WithSuggestions(suggestions ...string) *TaskflowError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *TaskflowError) WithDocs(url string) *TaskflowError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the first TaskflowError in err's chain, or an
// empty code when there is none.
func CodeOf(err error) ErrorCode {
	var tfErr *TaskflowError
	if errors.As(err, &tfErr) {
		return tfErr.Code
	}
	return ""
}

// HasCode reports whether err's chain contains a TaskflowError with code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps an error to the status code an API response should carry.
// Errors without a code are server faults.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeCycleDetected, ErrCodeDuplicateTask, ErrCodeScheduleInvalid,
		ErrCodeProjectInvalid, ErrCodeTaskInvalid, ErrCodeBadRequest,
		ErrCodeRequestSchema, ErrCodeWeakPassword:
		return http.StatusBadRequest
	case ErrCodeUnauthenticated, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeProjectNotFound, ErrCodeTaskNotFound, ErrCodeFileNotFound, ErrCodeTaskFileNotFound:
		return http.StatusNotFound
	case ErrCodeEmailTaken:
		return http.StatusConflict
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors for frequently used errors

// NewCycleDetectedError creates the user-facing scheduling failure.
func NewCycleDetectedError(cause error) *TaskflowError {
	return Wrap(ErrCodeCycleDetected, "A cycle was detected in the task dependencies.", cause).
		WithSuggestion("Remove one dependency from each loop so the tasks can be ordered").
		WithSuggestion("Check for tasks that list themselves as a dependency")
}

// NewDuplicateTaskError creates an error for a request that repeats a title.
func NewDuplicateTaskError(title string) *TaskflowError {
	return New(ErrCodeDuplicateTask, fmt.Sprintf("duplicate task title: %s", title)).
		WithSuggestion("Give every task in the request a unique title")
}

// NewScheduleInvalidError creates an error for a malformed scheduling request.
func NewScheduleInvalidError(cause error) *TaskflowError {
	return Wrap(ErrCodeScheduleInvalid, "invalid scheduling request", cause)
}

// NewTaskFileNotFoundError creates a task file not found error
func NewTaskFileNotFoundError(path string) *TaskflowError {
	return New(ErrCodeTaskFileNotFound, fmt.Sprintf("task file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Pass the file with --file <path>")
}

// NewUnauthenticatedError creates an error for a missing or invalid token.
func NewUnauthenticatedError(message string) *TaskflowError {
	return New(ErrCodeUnauthenticated, message).
		WithSuggestion("Log in again to obtain a fresh token")
}

// NewInvalidCredentialsError creates a login failure. The message does not
// say whether the email or the password was wrong.
func NewInvalidCredentialsError() *TaskflowError {
	return New(ErrCodeInvalidCredentials, "invalid email or password")
}

// NewForbiddenError creates an error for an operation on another user's resource.
func NewForbiddenError(resource string) *TaskflowError {
	return New(ErrCodeForbidden, fmt.Sprintf("you do not have access to this %s", resource))
}

// NewProjectNotFoundError creates a project not found error
func NewProjectNotFoundError(id string) *TaskflowError {
	return New(ErrCodeProjectNotFound, fmt.Sprintf("project not found: %s", id))
}

// NewTaskNotFoundError creates a task not found error
func NewTaskNotFoundError(id string) *TaskflowError {
	return New(ErrCodeTaskNotFound, fmt.Sprintf("task not found: %s", id))
}

// NewBadRequestError creates an error for an undecodable request body.
func NewBadRequestError(cause error) *TaskflowError {
	return Wrap(ErrCodeBadRequest, "malformed request body", cause).
		WithSuggestion("Send a JSON body matching /openapi.yaml")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *TaskflowError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Run 'taskflow config validate' to see all problems").
		WithSuggestion("Run 'taskflow config show' to print the effective configuration")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *TaskflowError {
	return Wrap(ErrCodeConfigUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}

// NewInternalError hides a server fault behind a generic message.
func NewInternalError(cause error) *TaskflowError {
	return Wrap(ErrCodeInternal, "internal server error", cause)
}
