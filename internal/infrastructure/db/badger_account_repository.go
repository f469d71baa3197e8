package db

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/quotation-labs/quotation-system/internal/domain/entity"
)

// BadgerAccountRepository implements the account repository interface using
// BadgerDB. It owns the in-process lock table that serializes transactions
// touching the same account, and the commit of each atomic unit: every
// balance write and the ledger append for one unit go through a single
// Badger update transaction.
type BadgerAccountRepository struct {
	db    *badger.DB
	locks *lockManager

	// Creation is serialized so the id and account-number counters stay
	// strictly sequential without update-transaction retries.
	seqMu sync.Mutex
}

// NewBadgerAccountRepository creates a new BadgerDB account repository.
// lockTimeout bounds how long a unit may wait for a contended account.
func NewBadgerAccountRepository(db *badger.DB, lockTimeout time.Duration) *BadgerAccountRepository {
	return &BadgerAccountRepository{
		db:    db,
		locks: newLockManager(lockTimeout),
	}
}

// Create persists a new account with the next id and account number
func (r *BadgerAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()

	err := r.db.Update(func(txn *badger.Txn) error {
		id, err := nextSeq(txn, accountIDSeqKey)
		if err != nil {
			return err
		}
		number, err := nextSeq(txn, accountNumSeqKey)
		if err != nil {
			return err
		}

		account.ID = int64(id)
		account.AccountNumber = number

		data, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to marshal account: %w", err)
		}
		return txn.Set(accountKey(account.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store account: %w", err)
	}
	return nil
}

// FindByID retrieves an account scoped to its owner
func (r *BadgerAccountRepository) FindByID(ctx context.Context, ownerID, id int64) (*entity.Account, error) {
	var account *entity.Account

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		account, err = getAccount(txn, ownerID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ListByOwner retrieves the owner's accounts in ascending id order
func (r *BadgerAccountRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Account, error) {
	accounts := make([]*entity.Account, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(accountPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(accountPrefix)); it.ValidForPrefix([]byte(accountPrefix)); it.Next() {
			var account entity.Account
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &account)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal account: %w", err)
			}
			if account.OwnerID == ownerID {
				a := account
				accounts = append(accounts, &a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Delete removes an account scoped to its owner
func (r *BadgerAccountRepository) Delete(ctx context.Context, ownerID, id int64) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := getAccount(txn, ownerID, id); err != nil {
			return err
		}
		return txn.Delete(accountKey(id))
	})
}

// LockAccounts acquires exclusive locks on the given accounts in ascending
// id order and loads them under those locks. The caller owns the returned
// values; nothing else sees its mutations until PersistWithLedger commits.
func (r *BadgerAccountRepository) LockAccounts(ctx context.Context, ownerID int64, ids ...int64) (map[int64]*entity.Account, func(), error) {
	release, err := r.locks.acquire(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	accounts := make(map[int64]*entity.Account, len(ids))
	err = r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			if _, ok := accounts[id]; ok {
				continue
			}
			account, err := getAccount(txn, ownerID, id)
			if err != nil {
				return err
			}
			accounts[id] = account
		}
		return nil
	})
	if err != nil {
		release()
		return nil, nil, err
	}

	return accounts, release, nil
}

// PersistWithLedger writes the mutated balances and the ledger entry in one
// Badger update transaction; a failure of any write discards them all.
func (r *BadgerAccountRepository) PersistWithLedger(ctx context.Context, accounts []*entity.Account, tx *entity.Transaction) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		for _, account := range accounts {
			data, err := json.Marshal(account)
			if err != nil {
				return fmt.Errorf("failed to marshal account: %w", err)
			}
			if err := txn.Set(accountKey(account.ID), data); err != nil {
				return err
			}
		}
		return appendLedgerEntry(txn, tx)
	})
	if err != nil {
		return fmt.Errorf("failed to commit unit: %w", err)
	}
	return nil
}

// getAccount loads one account inside txn, hiding accounts owned by others
func getAccount(txn *badger.Txn, ownerID, id int64) (*entity.Account, error) {
	item, err := txn.Get(accountKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, entity.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	var account entity.Account
	if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &account) }); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	if account.OwnerID != ownerID {
		return nil, entity.ErrAccountNotFound
	}
	return &account, nil
}

// nextSeq increments a counter key inside txn and returns the new value
func nextSeq(txn *badger.Txn, key string) (uint64, error) {
	var next uint64 = 1

	item, err := txn.Get([]byte(key))
	if err == nil {
		err = item.Value(func(val []byte) error {
			if len(val) == 8 {
				next = binary.BigEndian.Uint64(val) + 1
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return 0, err
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := txn.Set([]byte(key), buf); err != nil {
		return 0, err
	}
	return next, nil
}
