package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an entity does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already registered")
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Project groups tasks under a single owner.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"-"`
	CreatedAt   time.Time `json:"creationDate"`
}

// ProjectSummary is a project with the number of tasks it holds.
type ProjectSummary struct {
	Project
	TaskCount int `json:"taskCount"`
}

// Task is a stored to-do item belonging to a project.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
}

// TaskUpdate carries the mutable fields of a task.
type TaskUpdate struct {
	Title       string
	DueDate     *time.Time
	IsCompleted bool
}
