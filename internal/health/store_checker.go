package health

import "context"

// Pinger is satisfied by stores that can report their availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker reports the task store unhealthy when it cannot be pinged.
type StoreChecker struct {
	store Pinger
}

// NewStoreChecker creates a checker for store.
func NewStoreChecker(store Pinger) *StoreChecker {
	return &StoreChecker{store: store}
}

// Name implements Checker.
func (c *StoreChecker) Name() string { return "task-store" }

// Check implements Checker.
func (c *StoreChecker) Check(ctx context.Context) *Result {
	if err := c.store.Ping(ctx); err != nil {
		return Unhealthy("task store unavailable").WithDetail("error", err.Error())
	}
	return Healthy("task store reachable")
}
