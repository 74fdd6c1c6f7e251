// Package scheduler orders tasks so that every task runs after the tasks it
// depends on.
//
// Resolve is a pure function: it keeps no state between calls, performs no
// I/O and never mutates its input, so it is safe to call concurrently from any
// number of request handlers. Ordering uses Kahn's algorithm with a FIFO
// ready-queue seeded in input order, which makes the result deterministic:
// the same tasks in the same order always produce the same schedule.
//
// Input policy:
//   - An empty task list resolves to an empty order.
//   - A dependency that names no task in the request is ignored.
//   - A task that depends on itself is a cycle.
//   - Two tasks with the same ID are rejected with a *DuplicateTaskError.
//
// Example:
//
//	schedule, err := scheduler.Resolve([]scheduler.Task{
//	    {ID: "Design API"},
//	    {ID: "Implement Backend", DependsOn: []string{"Design API"}},
//	})
//	if scheduler.IsCycle(err) {
//	    // report to the user; the input must be corrected
//	}
package scheduler
