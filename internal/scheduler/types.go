package scheduler

import "time"

// Task is one entry in a scheduling request. ID is the task title and is the
// only addressing scheme dependencies use; it is unique within a request.
type Task struct {
	ID             string     `json:"title" yaml:"title"`
	EstimatedHours *int       `json:"estimatedHours,omitempty" yaml:"estimatedHours,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	DependsOn      []string   `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Schedule is a successful resolution: every task exactly once, each after
// all of its dependencies.
type Schedule struct {
	Order []string `json:"recommendedOrder"`
}

// DanglingReference is a dependency that names no task in the request.
type DanglingReference struct {
	Task       string `json:"task"`
	Dependency string `json:"dependency"`
}
