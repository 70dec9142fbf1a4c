package results

import "context"

// Transaction exposes the operations a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateResult(FitResult) (FitResult, error)
	UpdateResult(id string, mutator func(*FitResult) error) (FitResult, error)
	DeleteResult(id string) error
}

// TransactionView provides read-only access to snapshot data for
// rules.
type TransactionView interface {
	ListResults() []FitResult
	FindResult(id string) (FitResult, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It
// mirrors the subset of store capabilities used directly by higher
// layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetResult(id string) (FitResult, bool)
	ListResults() []FitResult
}
