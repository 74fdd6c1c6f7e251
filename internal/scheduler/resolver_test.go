package scheduler

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id string, deps ...string) Task {
	return Task{ID: id, DependsOn: deps}
}

func positions(order []string) map[string]int {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	return pos
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
		want  []string
	}{
		{
			name:  "empty input",
			tasks: []Task{},
			want:  []string{},
		},
		{
			name:  "nil input",
			tasks: nil,
			want:  []string{},
		},
		{
			name:  "single task",
			tasks: []Task{task("A")},
			want:  []string{"A"},
		},
		{
			name: "independent tasks keep input order",
			tasks: []Task{
				task("C"),
				task("A"),
				task("B"),
			},
			want: []string{"C", "A", "B"},
		},
		{
			name: "linear chain declared backwards",
			tasks: []Task{
				task("C", "B"),
				task("B", "A"),
				task("A"),
			},
			want: []string{"A", "B", "C"},
		},
		{
			name: "scenario A diamond",
			tasks: []Task{
				task("Design API"),
				task("Implement Backend", "Design API"),
				task("Build Frontend", "Design API"),
				task("End-to-End Test", "Implement Backend", "Build Frontend"),
			},
			want: []string{"Design API", "Implement Backend", "Build Frontend", "End-to-End Test"},
		},
		{
			name:  "scenario D dangling reference",
			tasks: []Task{task("A", "Ghost")},
			want:  []string{"A"},
		},
		{
			name: "dangling reference next to a real one",
			tasks: []Task{
				task("B", "Ghost", "A"),
				task("A"),
			},
			want: []string{"A", "B"},
		},
		{
			name: "ready tasks are queued first in first out",
			tasks: []Task{
				task("root"),
				task("x", "root"),
				task("y"),
				task("z", "root"),
			},
			// root and y are seeded; x and z become ready when root is placed.
			want: []string{"root", "y", "x", "z"},
		},
		{
			name: "repeated dependency entry",
			tasks: []Task{
				task("B", "A", "A"),
				task("A"),
			},
			want: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := Resolve(tt.tasks)
			require.NoError(t, err)
			require.NotNil(t, schedule)
			assert.Equal(t, tt.want, schedule.Order)
		})
	}
}

func TestResolve_Cycles(t *testing.T) {
	tests := []struct {
		name           string
		tasks          []Task
		wantUnresolved []string
	}{
		{
			name:           "scenario B direct cycle",
			tasks:          []Task{task("A", "B"), task("B", "A")},
			wantUnresolved: []string{"A", "B"},
		},
		{
			name:           "scenario C self dependency",
			tasks:          []Task{task("A", "A")},
			wantUnresolved: []string{"A"},
		},
		{
			name: "three task cycle behind a valid prefix",
			tasks: []Task{
				task("start"),
				task("X", "start", "Z"),
				task("Y", "X"),
				task("Z", "Y"),
			},
			wantUnresolved: []string{"X", "Y", "Z"},
		},
		{
			name: "task downstream of a cycle is unresolved too",
			tasks: []Task{
				task("A", "B"),
				task("B", "A"),
				task("C", "A"),
				task("D"),
			},
			wantUnresolved: []string{"A", "B", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := Resolve(tt.tasks)
			require.Error(t, err)
			assert.Nil(t, schedule, "no partial order on failure")
			assert.True(t, IsCycle(err))
			assert.ErrorIs(t, err, ErrCycleDetected)

			var cycleErr *CycleError
			require.True(t, errors.As(err, &cycleErr))
			assert.Equal(t, tt.wantUnresolved, cycleErr.Unresolved)
		})
	}
}

func TestResolve_WrappedCycleStillMatches(t *testing.T) {
	_, err := Resolve([]Task{task("A", "A")})
	wrapped := fmt.Errorf("schedule project: %w", err)

	assert.True(t, IsCycle(wrapped))
	assert.Contains(t, wrapped.Error(), "a cycle was detected")
}

func TestResolve_DuplicateIDsRejected(t *testing.T) {
	schedule, err := Resolve([]Task{
		task("A"),
		task("B", "A"),
		task("A", "B"),
	})
	require.Error(t, err)
	assert.Nil(t, schedule)
	assert.False(t, IsCycle(err))

	var dupErr *DuplicateTaskError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "A", dupErr.ID)
	assert.Equal(t, 0, dupErr.FirstIndex)
	assert.Equal(t, 2, dupErr.Index)
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	due := time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "End", EstimatedHours: intPtr(2), DueDate: &due, DependsOn: []string{"Middle", "Ghost"}},
		{ID: "Middle", EstimatedHours: intPtr(5), DependsOn: []string{"Start", "Start"}},
		task("Start"),
	}
	snapshot := make([]Task, len(tasks))
	for i, tk := range tasks {
		snapshot[i] = Task{ID: tk.ID, DependsOn: append([]string(nil), tk.DependsOn...)}
		if tk.EstimatedHours != nil {
			snapshot[i].EstimatedHours = intPtr(*tk.EstimatedHours)
		}
		if tk.DueDate != nil {
			d := *tk.DueDate
			snapshot[i].DueDate = &d
		}
	}

	_, err := Resolve(tasks)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(snapshot, tasks), "input was modified")
	assert.Equal(t, 2, *tasks[0].EstimatedHours)
	assert.True(t, tasks[0].DueDate.Equal(due))
}

func TestResolve_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tasks := randomDAG(rng, 200, 4)

	first, err := Resolve(tasks)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Resolve(tasks)
		require.NoError(t, err)
		require.Equal(t, first.Order, again.Order)
	}
}

func TestResolve_ConcurrentCalls(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tasks := randomDAG(rng, 100, 3)
	want, err := Resolve(tasks)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			schedule, err := Resolve(tasks)
			if err == nil {
				results[i] = schedule.Order
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want.Order, got)
	}
}

// Every acyclic input must come back as a permutation that respects every
// edge, however the tasks are shuffled.
func TestResolve_AcyclicProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		size := rng.Intn(40)
		tasks := randomDAG(rng, size, 5)

		schedule, err := Resolve(tasks)
		require.NoError(t, err, "round %d", round)
		require.Len(t, schedule.Order, len(tasks))

		pos := positions(schedule.Order)
		require.Len(t, pos, len(tasks), "order contains duplicates")
		for _, tk := range tasks {
			p, ok := pos[tk.ID]
			require.True(t, ok, "task %s missing from order", tk.ID)
			for _, dep := range tk.DependsOn {
				if dp, known := pos[dep]; known {
					assert.Less(t, dp, p, "%s must precede %s", dep, tk.ID)
				} else {
					assert.Contains(t, dep, "ghost", "only dangling references may be absent")
				}
			}
		}
	}
}

// Adding the reverse of any existing edge must turn an acyclic input into a
// cycle; with no edges, a self-dependency is used instead.
func TestResolve_CyclicProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for round := 0; round < 50; round++ {
		tasks := randomDAG(rng, 2+rng.Intn(30), 3)
		_, err := Resolve(tasks)
		require.NoError(t, err)

		index := make(map[string]int, len(tasks))
		for i, tk := range tasks {
			index[tk.ID] = i
		}

		from, to := tasks[0].ID, tasks[0].ID
		for _, tk := range tasks {
			for _, dep := range tk.DependsOn {
				if _, known := index[dep]; known {
					// tk depends on dep; make dep depend on tk as well.
					from, to = dep, tk.ID
				}
			}
		}

		i := index[from]
		tasks[i].DependsOn = append(append([]string(nil), tasks[i].DependsOn...), to)

		schedule, err := Resolve(tasks)
		assert.Nil(t, schedule)
		assert.True(t, IsCycle(err), "round %d: expected cycle after %s -> %s", round, from, to)
	}
}

func TestDanglingReferences(t *testing.T) {
	tasks := []Task{
		task("A", "Ghost"),
		task("B", "A", "Phantom", "Ghost"),
	}

	refs := DanglingReferences(tasks)

	assert.Equal(t, []DanglingReference{
		{Task: "A", Dependency: "Ghost"},
		{Task: "B", Dependency: "Phantom"},
		{Task: "B", Dependency: "Ghost"},
	}, refs)
	assert.Empty(t, DanglingReferences([]Task{task("A"), task("B", "A")}))
}

func TestEdgeCount(t *testing.T) {
	tasks := []Task{
		task("A"),
		task("B", "A", "Ghost"),
		task("C", "A", "B"),
	}
	assert.Equal(t, 3, EdgeCount(tasks))
	assert.Equal(t, 0, EdgeCount(nil))
}

// randomDAG builds size tasks whose dependencies only point at tasks created
// earlier, then shuffles them. Some dependencies are dangling "ghost" names.
func randomDAG(rng *rand.Rand, size, maxDeps int) []Task {
	tasks := make([]Task, size)
	for i := range tasks {
		tasks[i].ID = fmt.Sprintf("task-%03d", i)
		if i == 0 {
			continue
		}
		for n := rng.Intn(maxDeps + 1); n > 0; n-- {
			if rng.Intn(10) == 0 {
				tasks[i].DependsOn = append(tasks[i].DependsOn, fmt.Sprintf("ghost-%d", rng.Intn(5)))
				continue
			}
			tasks[i].DependsOn = append(tasks[i].DependsOn, tasks[rng.Intn(i)].ID)
		}
	}
	rng.Shuffle(len(tasks), func(i, j int) { tasks[i], tasks[j] = tasks[j], tasks[i] })
	return tasks
}
