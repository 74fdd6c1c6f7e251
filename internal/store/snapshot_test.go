package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskflow/internal/log"
)

func seed(t *testing.T, s *MemoryStore) (User, Project, []Task) {
	t.Helper()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, User{Email: "ada@example.com", PasswordHash: "$2a$10$hash"})
	require.NoError(t, err)
	p, err := s.CreateProject(ctx, Project{Title: "Launch", Description: "Q3", OwnerID: u.ID})
	require.NoError(t, err)

	due := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	var tasks []Task
	for _, title := range []string{"Design", "Build", "Ship"} {
		task, err := s.CreateTask(ctx, Task{ProjectID: p.ID, Title: title, DueDate: &due})
		require.NoError(t, err)
		tasks = append(tasks, task)
	}
	return u, p, tasks
}

func TestSnapshot_RoundTrip(t *testing.T) {
	src := newTestStore()
	u, p, tasks := seed(t, src)
	path := filepath.Join(t.TempDir(), "nested", "snapshot.json")

	require.NoError(t, src.SaveSnapshot(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dst := NewMemoryStore()
	loaded, err := dst.LoadSnapshot(path)
	require.NoError(t, err)
	require.True(t, loaded)

	ctx := context.Background()
	gotUser, err := dst.GetUserByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u, gotUser, "password hash and timestamps survive")

	owner, err := dst.ProjectOwner(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, owner)

	got, err := dst.ListTasks(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got, len(tasks))
	for i := range tasks {
		assert.Equal(t, tasks[i].ID, got[i].ID, "creation order kept")
		assert.True(t, tasks[i].DueDate.Equal(*got[i].DueDate))
	}

	_, err = dst.CreateUser(ctx, User{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSnapshot_Missing(t *testing.T) {
	s := NewMemoryStore()
	loaded, err := s.LoadSnapshot(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestSnapshot_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{"not json", "{", "parse snapshot"},
		{"wrong version", `{"version": 99}`, "version 99"},
		{"orphan project", `{"version": 1, "projects": [{"id": "p1", "ownerId": "nobody"}]}`, "unknown owner"},
		{"orphan task", `{"version": 1, "tasks": [{"id": "t1", "projectId": "p1", "title": "x"}]}`, "unknown project"},
		{"duplicate email", `{"version": 1, "users": [{"id": "a", "email": "x@y.z"}, {"id": "b", "email": "X@y.z"}]}`, "duplicate email"},
		{
			"duplicate user id",
			`{"version": 1, "users": [{"id": "a", "email": "x@y.z"}, {"id": "a", "email": "w@y.z"}]}`,
			"duplicate user id a",
		},
		{
			"duplicate project id",
			`{"version": 1, "users": [{"id": "a", "email": "x@y.z"}],
			  "projects": [{"id": "p1", "ownerId": "a"}, {"id": "p1", "ownerId": "a"}]}`,
			"duplicate project id p1",
		},
		{
			"duplicate task id",
			`{"version": 1, "users": [{"id": "a", "email": "x@y.z"}],
			  "projects": [{"id": "p1", "ownerId": "a"}],
			  "tasks": [{"id": "t1", "projectId": "p1", "title": "x"}, {"id": "t1", "projectId": "p1", "title": "y"}]}`,
			"duplicate task id t1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "snapshot.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			s := newTestStore()
			seed(t, s)
			loaded, err := s.LoadSnapshot(path)
			require.Error(t, err)
			assert.False(t, loaded)
			assert.Contains(t, err.Error(), tt.errContains)

			projects, err := s.ListProjects(context.Background(), mustUser(t, s).ID)
			require.NoError(t, err)
			assert.Len(t, projects, 1, "store untouched after a failed load")
		})
	}
}

func mustUser(t *testing.T, s *MemoryStore) User {
	t.Helper()
	u, err := s.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	return u
}

func TestSnapshotter_SavesOnTickAndShutdown(t *testing.T) {
	s := newTestStore()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	snap := NewSnapshotter(s, path, 10*time.Millisecond, log.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- snap.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	seed(t, s)
	cancel()
	require.NoError(t, <-done)

	restored := NewMemoryStore()
	loaded, err := restored.LoadSnapshot(path)
	require.NoError(t, err)
	require.True(t, loaded)
	_, err = restored.GetUserByEmail(context.Background(), "ada@example.com")
	assert.NoError(t, err, "final save includes data written after the last tick")
}
