package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		tasks       []Task
		wantErr     bool
		wantCount   int
		errContains string
	}{
		{
			name:  "empty request is valid",
			tasks: nil,
		},
		{
			name: "valid tasks with metadata and dangling dependency",
			tasks: []Task{
				{ID: "A", EstimatedHours: intPtr(0)},
				{ID: "B", EstimatedHours: intPtr(8), DependsOn: []string{"A", "Ghost"}},
			},
		},
		{
			name:        "blank title",
			tasks:       []Task{{ID: "   "}},
			wantErr:     true,
			wantCount:   1,
			errContains: "title is required",
		},
		{
			name:        "blank title and negative estimate on one task",
			tasks:       []Task{{ID: "", EstimatedHours: intPtr(-1)}},
			wantErr:     true,
			wantCount:   2,
			errContains: "validation failed",
		},
		{
			name:        "negative estimate",
			tasks:       []Task{{ID: "A", EstimatedHours: intPtr(-2)}},
			wantErr:     true,
			wantCount:   1,
			errContains: "must not be negative",
		},
		{
			name:        "duplicate title",
			tasks:       []Task{{ID: "A"}, {ID: "B"}, {ID: "A"}},
			wantErr:     true,
			wantCount:   1,
			errContains: `"A" duplicates the task at index 0`,
		},
		{
			name: "all problems are collected",
			tasks: []Task{
				{ID: ""},
				{ID: "A", EstimatedHours: intPtr(-1)},
				{ID: "A"},
			},
			wantErr:     true,
			wantCount:   3,
			errContains: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tasks)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Len(t, verrs, tt.wantCount)
		})
	}
}

func TestValidationErrors_Empty(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}
