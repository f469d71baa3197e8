package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendEntry(t *testing.T, bdb *badger.DB, tx *entity.Transaction) {
	t.Helper()
	require.NoError(t, bdb.Update(func(txn *badger.Txn) error {
		return appendLedgerEntry(txn, tx)
	}))
}

func TestLedgerListNewestFirst(t *testing.T) {
	ctx := context.Background()
	bdb := openTestDB(t)
	repo := NewBadgerTransactionRepository(bdb)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		appendEntry(t, bdb, &entity.Transaction{
			ID:        fmt.Sprintf("entry-%d", i),
			OwnerID:   1,
			AccountID: 1,
			Type:      entity.TypeDeposit,
			Amount:    dec(t, "1.00"),
			Currency:  "USD",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	// Another owner's entry must not leak into the listing.
	appendEntry(t, bdb, &entity.Transaction{
		ID:        "other-owner",
		OwnerID:   2,
		AccountID: 9,
		Type:      entity.TypeDeposit,
		Amount:    dec(t, "1.00"),
		Currency:  "USD",
		CreatedAt: base,
	})

	txs, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, txs, 5)
	for i, tx := range txs {
		assert.Equal(t, fmt.Sprintf("entry-%d", 4-i), tx.ID)
	}
}

func TestLedgerFindByIDOwnerScoped(t *testing.T) {
	ctx := context.Background()
	bdb := openTestDB(t)
	repo := NewBadgerTransactionRepository(bdb)

	appendEntry(t, bdb, &entity.Transaction{
		ID:        "abc",
		OwnerID:   1,
		AccountID: 1,
		Type:      entity.TypeWithdrawal,
		Amount:    dec(t, "2.00"),
		Currency:  "USD",
		CreatedAt: time.Now().UTC(),
	})

	got, err := repo.FindByID(ctx, 1, "abc")
	require.NoError(t, err)
	assert.Equal(t, entity.TypeWithdrawal, got.Type)

	_, err = repo.FindByID(ctx, 2, "abc")
	assert.ErrorIs(t, err, entity.ErrTransactionNotFound)

	_, err = repo.FindByID(ctx, 1, "missing")
	assert.ErrorIs(t, err, entity.ErrTransactionNotFound)
}

func TestLedgerEmptyListing(t *testing.T) {
	repo := NewBadgerTransactionRepository(openTestDB(t))

	txs, err := repo.ListByOwner(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, txs)
}
