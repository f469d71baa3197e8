package repository

import (
	"context"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
)

// AccountRepository defines the interface for account storage and the
// locking contract the transaction processor relies on.
type AccountRepository interface {
	// Create persists a new account, assigning its id and sequential
	// account number.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves an account scoped to its owner
	FindByID(ctx context.Context, ownerID, id int64) (*entity.Account, error)

	// ListByOwner retrieves all accounts belonging to an owner
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Account, error)

	// Delete removes an account; callers must have verified the balance is zero
	Delete(ctx context.Context, ownerID, id int64) error

	// LockAccounts acquires exclusive locks on the given accounts in
	// ascending-id order regardless of argument order, then loads them
	// scoped to ownerID. The returned release function must be called
	// exactly once, after the atomic unit commits or aborts.
	LockAccounts(ctx context.Context, ownerID int64, ids ...int64) (map[int64]*entity.Account, func(), error)

	// PersistWithLedger writes the mutated account balances and appends the
	// ledger entry in a single storage transaction. Failure of either write
	// aborts both.
	PersistWithLedger(ctx context.Context, accounts []*entity.Account, tx *entity.Transaction) error
}
