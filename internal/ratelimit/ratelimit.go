// Package ratelimit provides fixed-window request counting for the auth
// endpoints. The default in-process store suits a single instance; the Redis
// store shares windows across replicas.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Store counts hits per identifier within fixed windows.
type Store interface {
	// Check records a hit for id and reports whether it stays within max
	// hits per window. The hit is counted even when the check is denied.
	Check(ctx context.Context, id string, max int, window time.Duration) (Result, error)

	// Reset clears the window for id, e.g. after a successful login.
	Reset(ctx context.Context, id string) error
}
