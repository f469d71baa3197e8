package db

import (
	"context"
	"testing"
	"time"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateStoreAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerExchangeRateRepository(openTestDB(t))

	rate := &entity.ExchangeRate{
		Base:      "USD",
		Quote:     "CLP",
		Rate:      dec(t, "0.00125"),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.StoreRate(ctx, rate))

	got, err := repo.FindRate(ctx, "USD", "CLP")
	require.NoError(t, err)
	assert.True(t, got.Rate.Equal(rate.Rate))

	// The pair is ordered; the reverse direction is a different row.
	_, err = repo.FindRate(ctx, "CLP", "USD")
	assert.ErrorIs(t, err, entity.ErrRateNotFound)
}

func TestRateUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerExchangeRateRepository(openTestDB(t))

	require.NoError(t, repo.StoreRate(ctx, &entity.ExchangeRate{Base: "USD", Quote: "EUR", Rate: dec(t, "1.10")}))
	require.NoError(t, repo.StoreRate(ctx, &entity.ExchangeRate{Base: "USD", Quote: "EUR", Rate: dec(t, "1.20")}))

	got, err := repo.FindRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, got.Rate.Equal(dec(t, "1.20")))

	rates, err := repo.ListRates(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 1)
}
