package repository

import (
	"context"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
)

// TransactionRepository defines the read side of the ledger. Entries are
// written only through AccountRepository.PersistWithLedger, inside the same
// storage transaction as the balance updates.
type TransactionRepository interface {
	// FindByID retrieves a ledger entry scoped to its owner
	FindByID(ctx context.Context, ownerID int64, id string) (*entity.Transaction, error)

	// ListByOwner retrieves an owner's ledger entries, newest first
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Transaction, error)
}
