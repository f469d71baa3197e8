package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/quotation-labs/quotation-system/internal/domain/entity"
)

// BadgerTransactionRepository serves ledger reads. Writes happen only inside
// the account repository's commit, via appendLedgerEntry.
type BadgerTransactionRepository struct {
	db *badger.DB
}

// NewBadgerTransactionRepository creates a new BadgerDB ledger repository
func NewBadgerTransactionRepository(db *badger.DB) *BadgerTransactionRepository {
	return &BadgerTransactionRepository{db: db}
}

// FindByID retrieves a ledger entry scoped to its owner
func (r *BadgerTransactionRepository) FindByID(ctx context.Context, ownerID int64, id string) (*entity.Transaction, error) {
	var tx entity.Transaction

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(ledgerKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &tx)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, entity.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}
	if tx.OwnerID != ownerID {
		return nil, entity.ErrTransactionNotFound
	}
	return &tx, nil
}

// ListByOwner retrieves an owner's ledger entries, newest first. The index
// keys embed the creation time, so a reverse scan is already in order.
func (r *BadgerTransactionRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Transaction, error) {
	prefix := ledgerOwnerPrefix(ownerID)
	txs := make([]*entity.Transaction, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek past the last possible key for this owner, then walk back.
		seek := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var id []byte
			if err := it.Item().Value(func(val []byte) error {
				id = append([]byte{}, val...)
				return nil
			}); err != nil {
				return err
			}

			item, err := txn.Get(ledgerKey(string(id)))
			if err != nil {
				return fmt.Errorf("ledger index points at missing entry %s: %w", id, err)
			}

			var tx entity.Transaction
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &tx) }); err != nil {
				return fmt.Errorf("failed to unmarshal transaction: %w", err)
			}
			t := tx
			txs = append(txs, &t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// appendLedgerEntry writes the entry and its owner/time index inside txn.
// Entries are immutable: nothing in the repository updates or deletes them.
func appendLedgerEntry(txn *badger.Txn, tx *entity.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if err := txn.Set(ledgerKey(tx.ID), data); err != nil {
		return err
	}
	return txn.Set(ledgerIdxKey(tx.OwnerID, tx.CreatedAt.UnixNano(), tx.ID), []byte(tx.ID))
}
