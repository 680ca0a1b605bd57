// Package cache holds short-lived shared state: single-use values with a
// TTL and fixed-window attempt counters. Both come in an in-process flavour
// for single-instance deployments and a PostgreSQL flavour that every
// instance behind a load balancer can share.
package cache

import (
	"context"
	"time"
)

// ExpiringStore keeps values that vanish after a TTL. Consume is an atomic
// read-and-delete: of any number of concurrent callers for one key, at most
// one receives the value.
type ExpiringStore interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Consume(ctx context.Context, key string) (value string, ok bool, err error)
	Sweep(ctx context.Context) (int, error)
}

// AttemptCounter counts events per key in fixed windows. The window starts
// at the first event for a key and the count resets once it has elapsed.
type AttemptCounter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
	Sweep(ctx context.Context) (int, error)
}
