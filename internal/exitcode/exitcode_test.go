package exitcode

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/scheduler"
)

func TestDetermineExitCode(t *testing.T) {
	_, cycleErr := scheduler.Resolve([]scheduler.Task{
		{ID: "A", DependsOn: []string{"B"}},
		{ID: "B", DependsOn: []string{"A"}},
	})
	validationErr := scheduler.Validate([]scheduler.Task{{ID: ""}})

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, Success},
		{"structured cycle", errors.NewCycleDetectedError(cycleErr), CycleDetected},
		{"raw cycle", cycleErr, CycleDetected},
		{"wrapped cycle", fmt.Errorf("schedule: %w", cycleErr), CycleDetected},
		{"duplicate title", errors.NewDuplicateTaskError("A"), UsageError},
		{"validation errors", validationErr, UsageError},
		{"invalid config", errors.NewConfigInvalidError("auth.signingKey: too short"), UsageError},
		{"missing task file", errors.NewTaskFileNotFoundError("tasks.yaml"), NotFound},
		{"unknown flag", stderrors.New("unknown flag: --bogus"), UsageError},
		{"required flag", stderrors.New(`required flag(s) "file" not set`), UsageError},
		{"internal", errors.NewInternalError(stderrors.New("boom")), GeneralError},
		{"plain", stderrors.New("something broke"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{UsageError, "Usage or input validation error"},
		{CycleDetected, "Dependency cycle detected"},
		{NotFound, "Input file not found"},
		{99, "Unknown error"},
	}

	for _, tt := range tests {
		if got := Description(tt.code); got != tt.want {
			t.Errorf("Description(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
