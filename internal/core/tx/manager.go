// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces instead of a concrete store,
// so the atomic-batch boundary can be replaced in tests.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// RunInTransaction is the single atomicity boundary in the system: every
// multi-record mutation is staged inside one call and commits all-or-nothing.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
