package store

import "context"

// UserStore persists accounts.
type UserStore interface {
	// CreateUser assigns an ID and saves u. Returns ErrEmailTaken when the
	// email is already registered.
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
}

// ProjectStore persists projects. Every query is scoped to an owner: a
// project owned by someone else behaves as if it did not exist.
type ProjectStore interface {
	CreateProject(ctx context.Context, p Project) (Project, error)
	// ListProjects returns the owner's projects, newest first.
	ListProjects(ctx context.Context, ownerID string) ([]ProjectSummary, error)
	GetProject(ctx context.Context, ownerID, id string) (ProjectSummary, error)
	// DeleteProject removes the project and all of its tasks.
	DeleteProject(ctx context.Context, ownerID, id string) error
	// ProjectOwnedBy reports whether id exists and belongs to ownerID.
	ProjectOwnedBy(ctx context.Context, ownerID, id string) (bool, error)
	// ProjectOwner returns the owner of any project. Used to tell a missing
	// project from a foreign one.
	ProjectOwner(ctx context.Context, projectID string) (string, error)
}

// TaskStore persists tasks. Callers check project ownership first.
type TaskStore interface {
	CreateTask(ctx context.Context, t Task) (Task, error)
	GetTask(ctx context.Context, id string) (Task, error)
	ListTasks(ctx context.Context, projectID string) ([]Task, error)
	UpdateTask(ctx context.Context, id string, upd TaskUpdate) (Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Store is the full persistence surface used by the API.
type Store interface {
	UserStore
	ProjectStore
	TaskStore

	// Ping reports whether the store can serve requests.
	Ping(ctx context.Context) error
}
