package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory.
//
// It is suitable for single-instance deployments, development and tests.
// All methods are safe for concurrent use and return copies, so callers
// can never mutate stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]User
	byEmail  map[string]string
	projects map[string]Project
	tasks    map[string]Task
	// projectTasks keeps task IDs per project in insertion order.
	projectTasks map[string][]string
	closed       bool

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]User),
		byEmail:      make(map[string]string),
		projects:     make(map[string]Project),
		tasks:        make(map[string]Task),
		projectTasks: make(map[string][]string),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Close marks the store unavailable. Ping fails afterwards.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Ping implements Store.
func (m *MemoryStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errors.New("memory store is closed")
	}
	return nil
}

// CreateUser implements UserStore.
func (m *MemoryStore) CreateUser(ctx context.Context, u User) (User, error) {
	if u.Email == "" {
		return User{}, fmt.Errorf("create user: email is required")
	}
	key := strings.ToLower(u.Email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[key]; exists {
		return User{}, ErrEmailTaken
	}

	u.ID = uuid.NewString()
	u.CreatedAt = m.now()
	m.users[u.ID] = u
	m.byEmail[key] = u.ID
	return u, nil
}

// GetUserByEmail implements UserStore. Matching is case-insensitive.
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return m.users[id], nil
}

// GetUser implements UserStore.
func (m *MemoryStore) GetUser(ctx context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// CreateProject implements ProjectStore.
func (m *MemoryStore) CreateProject(ctx context.Context, p Project) (Project, error) {
	if p.OwnerID == "" {
		return Project{}, fmt.Errorf("create project: owner is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = m.now()
	m.projects[p.ID] = p
	return p, nil
}

// ListProjects implements ProjectStore.
func (m *MemoryStore) ListProjects(ctx context.Context, ownerID string) ([]ProjectSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ProjectSummary, 0)
	for _, p := range m.projects {
		if p.OwnerID == ownerID {
			out = append(out, ProjectSummary{Project: p, TaskCount: len(m.projectTasks[p.ID])})
		}
	}

	slices.SortFunc(out, func(a, b ProjectSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// GetProject implements ProjectStore.
func (m *MemoryStore) GetProject(ctx context.Context, ownerID, id string) (ProjectSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok || p.OwnerID != ownerID {
		return ProjectSummary{}, ErrNotFound
	}
	return ProjectSummary{Project: p, TaskCount: len(m.projectTasks[id])}, nil
}

// DeleteProject implements ProjectStore.
func (m *MemoryStore) DeleteProject(ctx context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok || p.OwnerID != ownerID {
		return ErrNotFound
	}

	for _, taskID := range m.projectTasks[id] {
		delete(m.tasks, taskID)
	}
	delete(m.projectTasks, id)
	delete(m.projects, id)
	return nil
}

// ProjectOwnedBy implements ProjectStore.
func (m *MemoryStore) ProjectOwnedBy(ctx context.Context, ownerID, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	return ok && p.OwnerID == ownerID, nil
}

// ProjectOwner implements ProjectStore.
func (m *MemoryStore) ProjectOwner(ctx context.Context, projectID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[projectID]
	if !ok {
		return "", ErrNotFound
	}
	return p.OwnerID, nil
}

// CreateTask implements TaskStore.
func (m *MemoryStore) CreateTask(ctx context.Context, t Task) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[t.ProjectID]; !ok {
		return Task{}, ErrNotFound
	}

	t.ID = uuid.NewString()
	t.DueDate = cloneTime(t.DueDate)
	m.tasks[t.ID] = t
	m.projectTasks[t.ProjectID] = append(m.projectTasks[t.ProjectID], t.ID)
	return copyTask(t), nil
}

// GetTask implements TaskStore.
func (m *MemoryStore) GetTask(ctx context.Context, id string) (Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return copyTask(t), nil
}

// ListTasks implements TaskStore. Tasks come back in creation order.
func (m *MemoryStore) ListTasks(ctx context.Context, projectID string) ([]Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.projectTasks[projectID]
	out := make([]Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyTask(m.tasks[id]))
	}
	return out, nil
}

// UpdateTask implements TaskStore.
func (m *MemoryStore) UpdateTask(ctx context.Context, id string, upd TaskUpdate) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}

	t.Title = upd.Title
	t.DueDate = cloneTime(upd.DueDate)
	t.IsCompleted = upd.IsCompleted
	m.tasks[id] = t
	return copyTask(t), nil
}

// DeleteTask implements TaskStore.
func (m *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return ErrNotFound
	}

	delete(m.tasks, id)
	m.projectTasks[t.ProjectID] = slices.DeleteFunc(m.projectTasks[t.ProjectID], func(s string) bool {
		return s == id
	})
	return nil
}

func copyTask(t Task) Task {
	t.DueDate = cloneTime(t.DueDate)
	return t
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
