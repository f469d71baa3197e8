package internal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/quotation-labs/quotation-system/internal/application/service"
	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/cache"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSystem struct {
	accounts     *service.AccountService
	transactions *service.TransactionService
	rates        *service.RateService
}

func newTestSystem(t *testing.T) *testSystem {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil
	opts.SyncWrites = false

	bdb, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdb.Close() })

	accountRepo := db.NewBadgerAccountRepository(bdb, 5*time.Second)
	ledgerRepo := db.NewBadgerTransactionRepository(bdb)
	rateRepo := cache.NewCachedExchangeRateRepository(
		db.NewBadgerExchangeRateRepository(bdb),
		cache.NewRateCache(time.Hour),
	)

	converter := service.NewConversionService(rateRepo, nil)
	return &testSystem{
		accounts:     service.NewAccountService(accountRepo, nil),
		transactions: service.NewTransactionService(accountRepo, ledgerRepo, converter, nil),
		rates:        service.NewRateService(rateRepo, nil),
	}
}

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func TestConcurrentDepositsLoseNoUpdate(t *testing.T) {
	ctx := context.Background()
	sys := newTestSystem(t)
	const ownerID int64 = 1

	account, err := sys.accounts.Open(ctx, ownerID, "USD")
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sys.transactions.Process(ctx, ownerID, service.ProcessInput{
				Type:      entity.TypeDeposit,
				AccountID: account.ID,
				Amount:    d(t, "1.00"),
				Currency:  "USD",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := sys.accounts.Get(ctx, ownerID, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(d(t, "20.00")), "got %s", got.Balance)

	txs, err := sys.transactions.ListTransactions(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, txs, workers)
}

func TestOppositeTransfersDoNotDeadlock(t *testing.T) {
	ctx := context.Background()
	sys := newTestSystem(t)
	const ownerID int64 = 1

	a, err := sys.accounts.Open(ctx, ownerID, "USD")
	require.NoError(t, err)
	b, err := sys.accounts.Open(ctx, ownerID, "USD")
	require.NoError(t, err)

	for _, id := range []int64{a.ID, b.ID} {
		_, err := sys.transactions.Process(ctx, ownerID, service.ProcessInput{
			Type:      entity.TypeDeposit,
			AccountID: id,
			Amount:    d(t, "100.00"),
			Currency:  "USD",
		})
		require.NoError(t, err)
	}

	// Opposite-direction transfers over the same pair, many times over.
	// Lock ordering by ascending account id must keep them deadlock-free.
	const rounds = 25
	var wg sync.WaitGroup
	transfer := func(from, to int64) {
		defer wg.Done()
		_, err := sys.transactions.Process(ctx, ownerID, service.ProcessInput{
			Type:             entity.TypeTransfer,
			AccountID:        from,
			RelatedAccountID: &to,
			Amount:           d(t, "1.00"),
		})
		assert.NoError(t, err)
	}
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go transfer(a.ID, b.ID)
		go transfer(b.ID, a.ID)
	}
	wg.Wait()

	gotA, err := sys.accounts.Get(ctx, ownerID, a.ID)
	require.NoError(t, err)
	gotB, err := sys.accounts.Get(ctx, ownerID, b.ID)
	require.NoError(t, err)

	// Equal flows in both directions cancel out, and money is conserved.
	assert.True(t, gotA.Balance.Equal(d(t, "100.00")), "got %s", gotA.Balance)
	assert.True(t, gotB.Balance.Equal(d(t, "100.00")), "got %s", gotB.Balance)
}

func TestAccountFlowScenario(t *testing.T) {
	ctx := context.Background()
	sys := newTestSystem(t)
	const ownerID int64 = 1

	usd, err := sys.accounts.Open(ctx, ownerID, "USD")
	require.NoError(t, err)
	clp, err := sys.accounts.Open(ctx, ownerID, "CLP")
	require.NoError(t, err)
	assert.Equal(t, "0", usd.Balance.String())

	// Deposit 1 USD.
	dep, err := sys.transactions.Process(ctx, ownerID, service.ProcessInput{
		Type:      entity.TypeDeposit,
		AccountID: usd.ID,
		Amount:    d(t, "1.00"),
		Currency:  "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, "1", dep.NewBalance.String())

	// Withdrawing 2 USD must fail and change nothing.
	_, err = sys.transactions.Process(ctx, ownerID, service.ProcessInput{
		Type:      entity.TypeWithdrawal,
		AccountID: usd.ID,
		Amount:    d(t, "2.00"),
		Currency:  "USD",
	})
	assert.ErrorIs(t, err, entity.ErrInsufficientFunds)

	got, err := sys.accounts.Get(ctx, ownerID, usd.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(d(t, "1.00")))

	// A transfer without a rate for the pair aborts untouched.
	_, err = sys.transactions.Process(ctx, ownerID, service.ProcessInput{
		Type:             entity.TypeTransfer,
		AccountID:        usd.ID,
		RelatedAccountID: &clp.ID,
		Amount:           d(t, "1.00"),
	})
	assert.ErrorIs(t, err, entity.ErrRateUnavailable)

	// Seed USD→CLP and transfer: 1 USD / 0.00125 = 800 CLP.
	_, err = sys.rates.Upsert(ctx, "USD", "CLP", d(t, "0.00125"))
	require.NoError(t, err)

	tr, err := sys.transactions.Process(ctx, ownerID, service.ProcessInput{
		Type:             entity.TypeTransfer,
		AccountID:        usd.ID,
		RelatedAccountID: &clp.ID,
		Amount:           d(t, "1.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", tr.Currency)
	assert.True(t, tr.NewBalance.IsZero())

	gotUSD, err := sys.accounts.Get(ctx, ownerID, usd.ID)
	require.NoError(t, err)
	gotCLP, err := sys.accounts.Get(ctx, ownerID, clp.ID)
	require.NoError(t, err)
	assert.True(t, gotUSD.Balance.IsZero())
	assert.True(t, gotCLP.Balance.Equal(d(t, "800.00")), "got %s", gotCLP.Balance)

	// The ledger lists the committed movements newest first; the failed
	// withdrawal and transfer left no trace.
	txs, err := sys.transactions.ListTransactions(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, tr.ID, txs[0].ID)
	assert.Equal(t, dep.ID, txs[1].ID)

	// The funded CLP account cannot be closed.
	err = sys.accounts.Close(ctx, ownerID, clp.ID)
	assert.ErrorIs(t, err, entity.ErrAccountNotEmpty)
	require.NoError(t, sys.accounts.Close(ctx, ownerID, usd.ID))
}
