package service

import (
	"context"
	"strings"
	"time"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/quotation-labs/quotation-system/internal/domain/repository"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

// RateService administers the exchange rate table
type RateService struct {
	rates  repository.ExchangeRateRepository
	logger logger.Logger
}

// NewRateService creates a new rate service
func NewRateService(rates repository.ExchangeRateRepository, log logger.Logger) *RateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &RateService{rates: rates, logger: log}
}

// Upsert stores or replaces the rate for the ordered pair (base, quote)
func (s *RateService) Upsert(ctx context.Context, base, quote string, rate decimal.Decimal) (*entity.ExchangeRate, error) {
	r := &entity.ExchangeRate{
		Base:      strings.ToUpper(strings.TrimSpace(base)),
		Quote:     strings.ToUpper(strings.TrimSpace(quote)),
		Rate:      rate,
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := s.rates.StoreRate(ctx, r); err != nil {
		return nil, entity.Wrap(err, "storing rate %s/%s", r.Base, r.Quote)
	}

	s.logger.Info("exchange rate stored", map[string]interface{}{
		"base":  r.Base,
		"quote": r.Quote,
		"rate":  r.Rate.String(),
	})

	return r, nil
}

// Get retrieves the stored rate for the ordered pair (base, quote)
func (s *RateService) Get(ctx context.Context, base, quote string) (*entity.ExchangeRate, error) {
	return s.rates.FindRate(ctx, base, quote)
}

// List retrieves every stored rate
func (s *RateService) List(ctx context.Context) ([]*entity.ExchangeRate, error) {
	return s.rates.ListRates(ctx)
}
