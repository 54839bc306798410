package gitrepo

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// ProcessPool limits how many queries run at once across every repository.
// A nil pool runs operations without a limit.
type ProcessPool struct {
	semaphore *semaphore.Weighted
}

// NewProcessPool creates a pool admitting at most limit concurrent operations.
func NewProcessPool(limit int) *ProcessPool {
	if limit < 1 {
		limit = 1
	}
	return &ProcessPool{semaphore: semaphore.NewWeighted(int64(limit))}
}

// Run acquires a slot, runs operation, and releases the slot. It returns the
// context error when the context ends while waiting for a slot.
func (pool *ProcessPool) Run(executionContext context.Context, operation func() error) error {
	if pool == nil || pool.semaphore == nil {
		return operation()
	}
	if acquireError := pool.semaphore.Acquire(executionContext, 1); acquireError != nil {
		return acquireError
	}
	defer pool.semaphore.Release(1)
	return operation()
}
