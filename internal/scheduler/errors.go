package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycleDetected is matched by every *CycleError.
var ErrCycleDetected = errors.New("a cycle was detected in the task dependencies")

// CycleError reports that no linear order exists. Unresolved lists the tasks
// that never became ready, in input order; it contains every cycle member but
// may also contain tasks that merely depend on one.
type CycleError struct {
	Unresolved []string
}

func (e *CycleError) Error() string {
	if len(e.Unresolved) == 0 {
		return ErrCycleDetected.Error()
	}
	return fmt.Sprintf("%s: unresolved tasks %s", ErrCycleDetected, strings.Join(e.Unresolved, ", "))
}

// Is makes errors.Is(err, ErrCycleDetected) work for wrapped cycle errors.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}

// DuplicateTaskError rejects a request that uses the same ID twice.
type DuplicateTaskError struct {
	ID         string
	FirstIndex int
	Index      int
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("duplicate task %q at index %d (first defined at index %d)", e.ID, e.Index, e.FirstIndex)
}

// IsCycle reports whether err is or wraps a cycle failure.
func IsCycle(err error) bool {
	return errors.Is(err, ErrCycleDetected)
}
