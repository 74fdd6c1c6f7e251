package scheduler

import (
	"fmt"
	"strings"
)

// ValidationError describes one problem with one task of a request.
type ValidationError struct {
	Index   int
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("task at index %d: %s %s", e.Index, e.Field, e.Message)
}

// ValidationErrors collects every problem found in a request.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

func (ve *ValidationErrors) add(index int, field, format string, args ...any) {
	*ve = append(*ve, ValidationError{Index: index, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the inbound request shape: every task needs a non-blank
// title, estimates cannot be negative, and titles must be unique. Dependency
// lists are not checked; dangling references are allowed.
func Validate(tasks []Task) error {
	var errs ValidationErrors
	seen := make(map[string]int, len(tasks))

	for i, task := range tasks {
		if task.EstimatedHours != nil && *task.EstimatedHours < 0 {
			errs.add(i, "estimatedHours", "must not be negative, got %d", *task.EstimatedHours)
		}
		if strings.TrimSpace(task.ID) == "" {
			errs.add(i, "title", "is required")
			continue
		}
		if first, dup := seen[task.ID]; dup {
			errs.add(i, "title", "%q duplicates the task at index %d", task.ID, first)
			continue
		}
		seen[task.ID] = i
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
