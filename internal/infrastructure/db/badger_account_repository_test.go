package db

import (
	"context"
	"testing"
	"time"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(ownerID int64, currency, balance string, t *testing.T) *entity.Account {
	now := time.Now().UTC()
	return &entity.Account{
		OwnerID:   ownerID,
		Currency:  currency,
		Balance:   dec(t, balance),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAccountCreateAssignsSequences(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerAccountRepository(openTestDB(t), time.Second)

	first := newAccount(1, "USD", "0.00", t)
	second := newAccount(2, "EUR", "0.00", t)

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, uint64(1), first.AccountNumber)
	assert.Equal(t, uint64(2), second.AccountNumber)
}

func TestAccountOwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerAccountRepository(openTestDB(t), time.Second)

	mine := newAccount(1, "USD", "0.00", t)
	theirs := newAccount(2, "USD", "0.00", t)
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, theirs))

	got, err := repo.FindByID(ctx, 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	// Someone else's account is indistinguishable from a missing one.
	_, err = repo.FindByID(ctx, 1, theirs.ID)
	assert.ErrorIs(t, err, entity.ErrAccountNotFound)

	list, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
}

func TestLockAccountsLoadsUnderLock(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerAccountRepository(openTestDB(t), time.Second)

	a := newAccount(1, "USD", "5.00", t)
	b := newAccount(1, "CLP", "0.00", t)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	// Argument order must not matter.
	locked, release, err := repo.LockAccounts(ctx, 1, b.ID, a.ID)
	require.NoError(t, err)
	defer release()

	require.Len(t, locked, 2)
	assert.True(t, locked[a.ID].Balance.Equal(dec(t, "5.00")))
	assert.Equal(t, "CLP", locked[b.ID].Currency)
}

func TestLockAccountsUnknownAccountReleasesLocks(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerAccountRepository(openTestDB(t), 100*time.Millisecond)

	a := newAccount(1, "USD", "0.00", t)
	require.NoError(t, repo.Create(ctx, a))

	_, _, err := repo.LockAccounts(ctx, 1, a.ID, 999)
	assert.ErrorIs(t, err, entity.ErrAccountNotFound)

	// The failed call must not leave account a locked.
	locked, release, err := repo.LockAccounts(ctx, 1, a.ID)
	require.NoError(t, err)
	release()
	assert.Len(t, locked, 1)
}

func TestLockAccountsContentionTimesOut(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerAccountRepository(openTestDB(t), 50*time.Millisecond)

	a := newAccount(1, "USD", "0.00", t)
	require.NoError(t, repo.Create(ctx, a))

	_, release, err := repo.LockAccounts(ctx, 1, a.ID)
	require.NoError(t, err)

	_, _, err = repo.LockAccounts(ctx, 1, a.ID)
	assert.ErrorIs(t, err, entity.ErrLockTimeout)

	release()

	_, release, err = repo.LockAccounts(ctx, 1, a.ID)
	require.NoError(t, err)
	release()
}

func TestPersistWithLedgerCommitsTogether(t *testing.T) {
	ctx := context.Background()
	bdb := openTestDB(t)
	repo := NewBadgerAccountRepository(bdb, time.Second)
	ledger := NewBadgerTransactionRepository(bdb)

	a := newAccount(1, "USD", "0.00", t)
	require.NoError(t, repo.Create(ctx, a))

	a.Balance = dec(t, "10.00")
	entry := &entity.Transaction{
		ID:              "00000000-0000-0000-0000-000000000001",
		OwnerID:         1,
		AccountID:       a.ID,
		Type:            entity.TypeDeposit,
		Amount:          dec(t, "10.00"),
		Currency:        "USD",
		PreviousBalance: dec(t, "0.00"),
		NewBalance:      dec(t, "10.00"),
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, repo.PersistWithLedger(ctx, []*entity.Account{a}, entry))

	got, err := repo.FindByID(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec(t, "10.00")))

	stored, err := ledger.FindByID(ctx, 1, entry.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(entry.Amount))
	assert.Equal(t, entity.TypeDeposit, stored.Type)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerAccountRepository(openTestDB(t), time.Second)

	a := newAccount(1, "USD", "0.00", t)
	require.NoError(t, repo.Create(ctx, a))

	assert.ErrorIs(t, repo.Delete(ctx, 2, a.ID), entity.ErrAccountNotFound)
	require.NoError(t, repo.Delete(ctx, 1, a.ID))

	_, err := repo.FindByID(ctx, 1, a.ID)
	assert.ErrorIs(t, err, entity.ErrAccountNotFound)
}

func TestLockManagerOrdering(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 9}, dedupeSorted([]int64{9, 1, 2, 1, 9}))
	assert.Empty(t, dedupeSorted(nil))
}
