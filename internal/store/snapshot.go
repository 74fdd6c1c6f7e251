package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskflow/internal/log"
)

const snapshotVersion = 1

type snapshotFile struct {
	Version  int             `json:"version"`
	SavedAt  time.Time       `json:"savedAt"`
	Users    []userRecord    `json:"users"`
	Projects []projectRecord `json:"projects"`
	Tasks    []Task          `json:"tasks"`
}

// userRecord and projectRecord persist the fields the API hides.
type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type projectRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SaveSnapshot writes the whole store to path as JSON. The file is replaced
// atomically.
func (m *MemoryStore) SaveSnapshot(path string) error {
	data, err := json.MarshalIndent(m.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".taskflow-snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot replaces the store's contents with the snapshot at path. It
// reports false without error when the file does not exist.
func (m *MemoryStore) LoadSnapshot(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return false, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if snap.Version != snapshotVersion {
		return false, fmt.Errorf("snapshot %s has version %d, want %d", path, snap.Version, snapshotVersion)
	}

	if err := m.restore(snap); err != nil {
		return false, fmt.Errorf("restore snapshot %s: %w", path, err)
	}
	return true, nil
}

func (m *MemoryStore) snapshot() snapshotFile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := snapshotFile{
		Version:  snapshotVersion,
		SavedAt:  m.now(),
		Users:    make([]userRecord, 0, len(m.users)),
		Projects: make([]projectRecord, 0, len(m.projects)),
		Tasks:    make([]Task, 0, len(m.tasks)),
	}

	for _, u := range m.users {
		snap.Users = append(snap.Users, userRecord(u))
	}
	slices.SortFunc(snap.Users, func(a, b userRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	for _, p := range m.projects {
		snap.Projects = append(snap.Projects, projectRecord(p))
	}
	slices.SortFunc(snap.Projects, func(a, b projectRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	// Tasks follow their project's creation order so that reloading keeps
	// ListTasks ordering.
	for _, p := range snap.Projects {
		for _, id := range m.projectTasks[p.ID] {
			snap.Tasks = append(snap.Tasks, copyTask(m.tasks[id]))
		}
	}
	return snap
}

func (m *MemoryStore) restore(snap snapshotFile) error {
	users := make(map[string]User, len(snap.Users))
	byEmail := make(map[string]string, len(snap.Users))
	for _, r := range snap.Users {
		if _, dup := users[r.ID]; dup {
			return fmt.Errorf("duplicate user id %s", r.ID)
		}
		key := strings.ToLower(r.Email)
		if _, dup := byEmail[key]; dup {
			return fmt.Errorf("duplicate email %q", r.Email)
		}
		users[r.ID] = User(r)
		byEmail[key] = r.ID
	}

	projects := make(map[string]Project, len(snap.Projects))
	for _, r := range snap.Projects {
		if _, dup := projects[r.ID]; dup {
			return fmt.Errorf("duplicate project id %s", r.ID)
		}
		if _, ok := users[r.OwnerID]; !ok {
			return fmt.Errorf("project %s has unknown owner %s", r.ID, r.OwnerID)
		}
		projects[r.ID] = Project(r)
	}

	tasks := make(map[string]Task, len(snap.Tasks))
	projectTasks := make(map[string][]string)
	for _, t := range snap.Tasks {
		if _, dup := tasks[t.ID]; dup {
			return fmt.Errorf("duplicate task id %s", t.ID)
		}
		if _, ok := projects[t.ProjectID]; !ok {
			return fmt.Errorf("task %s has unknown project %s", t.ID, t.ProjectID)
		}
		tasks[t.ID] = copyTask(t)
		projectTasks[t.ProjectID] = append(projectTasks[t.ProjectID], t.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
	m.byEmail = byEmail
	m.projects = projects
	m.tasks = tasks
	m.projectTasks = projectTasks
	return nil
}

// Snapshotter saves a MemoryStore periodically and once more on shutdown.
type Snapshotter struct {
	store    *MemoryStore
	path     string
	interval time.Duration
	logger   *log.Logger
}

// NewSnapshotter creates a snapshotter writing to path every interval.
func NewSnapshotter(store *MemoryStore, path string, interval time.Duration, logger *log.Logger) *Snapshotter {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Snapshotter{
		store:    store,
		path:     path,
		interval: interval,
		logger:   logger.With("component", "snapshot", "path", path),
	}
}

// Run saves on every tick until ctx is done, then saves a final time and
// returns that save's error. Failed periodic saves are logged and retried
// on the next tick.
func (s *Snapshotter) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.store.SaveSnapshot(s.path); err != nil {
				s.logger.Warn("periodic snapshot failed", "error", err.Error())
				continue
			}
			s.logger.Debug("snapshot saved")
		case <-ctx.Done():
			if err := s.store.SaveSnapshot(s.path); err != nil {
				return fmt.Errorf("final snapshot: %w", err)
			}
			s.logger.Info("final snapshot saved")
			return nil
		}
	}
}
