package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes a function within a transaction. The transaction is
	// committed if fn returns nil and rolled back otherwise.
	ExecTx(ctx context.Context, fn TxFn) error
}
