package cache

import (
	"context"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/quotation-labs/quotation-system/internal/domain/repository"
)

// CachedExchangeRateRepository reads rates through a TTL cache in front of
// another rate repository. Writes go to the inner repository and refresh the
// cache, so a rate update is visible to the next conversion immediately.
type CachedExchangeRateRepository struct {
	inner repository.ExchangeRateRepository
	cache *RateCache
}

// NewCachedExchangeRateRepository wraps inner with the given cache
func NewCachedExchangeRateRepository(inner repository.ExchangeRateRepository, cache *RateCache) *CachedExchangeRateRepository {
	return &CachedExchangeRateRepository{inner: inner, cache: cache}
}

// FindRate finds the rate for (base, quote), preferring the cache
func (r *CachedExchangeRateRepository) FindRate(ctx context.Context, base, quote string) (*entity.ExchangeRate, error) {
	if rate := r.cache.Get(base, quote); rate != nil {
		return rate, nil
	}

	rate, err := r.inner.FindRate(ctx, base, quote)
	if err != nil {
		return nil, err
	}
	r.cache.Put(rate)
	return rate, nil
}

// StoreRate saves the rate and refreshes its cache entry
func (r *CachedExchangeRateRepository) StoreRate(ctx context.Context, rate *entity.ExchangeRate) error {
	if err := r.inner.StoreRate(ctx, rate); err != nil {
		return err
	}
	r.cache.Put(rate)
	return nil
}

// ListRates retrieves every stored rate from the inner repository
func (r *CachedExchangeRateRepository) ListRates(ctx context.Context) ([]*entity.ExchangeRate, error) {
	return r.inner.ListRates(ctx)
}
