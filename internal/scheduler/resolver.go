package scheduler

// Resolve returns an execution order in which every task appears after all
// of its dependencies. It returns a *CycleError when no such order exists and
// a *DuplicateTaskError when two tasks share an ID. On error the schedule is
// nil; a partial order is never returned.
func Resolve(tasks []Task) (*Schedule, error) {
	index := make(map[string]int, len(tasks))
	for i, task := range tasks {
		if first, exists := index[task.ID]; exists {
			return nil, &DuplicateTaskError{ID: task.ID, FirstIndex: first, Index: i}
		}
		index[task.ID] = i
	}

	// dependents[i] lists the positions of tasks that wait on tasks[i],
	// appended in input order. Dangling dependencies add no edge.
	dependents := make([][]int, len(tasks))
	inDegree := make([]int, len(tasks))
	for i, task := range tasks {
		for _, dep := range task.DependsOn {
			j, ok := index[dep]
			if !ok {
				continue
			}
			dependents[j] = append(dependents[j], i)
			inDegree[i]++
		}
	}

	queue := make([]int, 0, len(tasks))
	for i := range tasks {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]string, 0, len(tasks))
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		order = append(order, tasks[current].ID)
		for _, next := range dependents[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(tasks) {
		unresolved := make([]string, 0, len(tasks)-len(order))
		for i, task := range tasks {
			if inDegree[i] > 0 {
				unresolved = append(unresolved, task.ID)
			}
		}
		return nil, &CycleError{Unresolved: unresolved}
	}

	return &Schedule{Order: order}, nil
}

// DanglingReferences lists dependencies that name no task in the request, in
// input order. Resolve ignores them; callers use this for diagnostics.
func DanglingReferences(tasks []Task) []DanglingReference {
	known := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		known[task.ID] = true
	}

	var refs []DanglingReference
	for _, task := range tasks {
		for _, dep := range task.DependsOn {
			if !known[dep] {
				refs = append(refs, DanglingReference{Task: task.ID, Dependency: dep})
			}
		}
	}
	return refs
}

// EdgeCount returns the number of dependency edges Resolve would build.
func EdgeCount(tasks []Task) int {
	known := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		known[task.ID] = true
	}

	edges := 0
	for _, task := range tasks {
		for _, dep := range task.DependsOn {
			if known[dep] {
				edges++
			}
		}
	}
	return edges
}
