package interfaces

import "context"

// TransactionManager runs fn atomically. Repository calls made with the ctx
// passed to fn join the transaction. fn may be re-run on transient errors.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
