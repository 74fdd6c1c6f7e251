// Package exitcode maps command errors onto process exit codes.
package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/scheduler"
)

// Exit codes of the taskflow CLI.
const (
	Success = 0

	// GeneralError covers every failure without a more specific code.
	GeneralError = 1

	// UsageError means bad flags or arguments, or input that failed
	// validation (duplicate titles, malformed files, invalid config).
	UsageError = 2

	// CycleDetected means the tasks cannot be ordered.
	CycleDetected = 3

	// NotFound means an input file does not exist.
	NotFound = 4
)

// Exit terminates the process with code.
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with the code for err.
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode returns the exit code for err.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var tfErr *errors.TaskflowError
	if stderrors.As(err, &tfErr) {
		switch tfErr.Code {
		case errors.ErrCodeCycleDetected:
			return CycleDetected
		case errors.ErrCodeDuplicateTask, errors.ErrCodeScheduleInvalid,
			errors.ErrCodeBadRequest, errors.ErrCodeRequestSchema,
			errors.ErrCodeConfigInvalid, errors.ErrCodeConfigUnmarshal:
			return UsageError
		case errors.ErrCodeTaskFileNotFound, errors.ErrCodeFileNotFound:
			return NotFound
		}
	}

	if scheduler.IsCycle(err) {
		return CycleDetected
	}
	var dup *scheduler.DuplicateTaskError
	var invalid scheduler.ValidationErrors
	if stderrors.As(err, &dup) || stderrors.As(err, &invalid) {
		return UsageError
	}

	// cobra reports usage problems as plain errors.
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "required flag", "invalid argument", "accepts "} {
		if strings.Contains(msg, marker) {
			return UsageError
		}
	}

	return GeneralError
}

// Description returns a short description of code.
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage or input validation error"
	case CycleDetected:
		return "Dependency cycle detected"
	case NotFound:
		return "Input file not found"
	default:
		return "Unknown error"
	}
}
