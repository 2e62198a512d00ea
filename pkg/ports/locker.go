package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It allows the session manager to keep a single writer per workspace across
// several server replicas.
type DistributedLocker interface {
	// Lock acquires the lock for key (a workspace ID), blocking until it is acquired
	// or ctx is done. The lock is released by the returned UnlockFunc or after ttl.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
