package datagateway

import "context"

// Tx is implemented by transaction-enabled datagateways.
type Tx interface {
	// Commit commits the transaction.
	Commit(ctx context.Context) error
	// Rollback rolls back the transaction. Rollback after a Commit is a no-op.
	Rollback(ctx context.Context) error
}
