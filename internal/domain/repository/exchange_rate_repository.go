package repository

import (
	"context"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
)

// ExchangeRateRepository defines the interface for exchange rate access
type ExchangeRateRepository interface {
	// FindRate finds the rate for the ordered pair (base, quote)
	FindRate(ctx context.Context, base, quote string) (*entity.ExchangeRate, error)

	// StoreRate saves or replaces the rate for its currency pair
	StoreRate(ctx context.Context, rate *entity.ExchangeRate) error

	// ListRates retrieves every stored rate
	ListRates(ctx context.Context) ([]*entity.ExchangeRate, error)
}
