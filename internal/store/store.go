// Package store provides data persistence interfaces and implementations.
package store

import "context"

// Repository defines the interface for persisting the visit counter.
type Repository interface {
	// IncrementVisits atomically increments the visit counter and
	// returns the new value.
	IncrementVisits(ctx context.Context) (int64, error)

	// Visits returns the current counter value without incrementing.
	Visits(ctx context.Context) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
