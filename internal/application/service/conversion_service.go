package service

import (
	"context"
	"errors"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/quotation-labs/quotation-system/internal/domain/repository"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

// balanceScale is the number of decimal places every balance and converted
// amount is kept at.
const balanceScale = 2

// ConversionService converts amounts between currencies using the stored
// rate table. The quote convention is fixed: the rate for (base, quote)
// divides an amount in the base currency to yield the quote currency.
type ConversionService struct {
	rates  repository.ExchangeRateRepository
	logger logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(rates repository.ExchangeRateRepository, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &ConversionService{rates: rates, logger: log}
}

// Convert converts amount from one currency to another. Same-currency
// conversion is the identity and performs no lookup.
func (s *ConversionService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	rate, err := s.rates.FindRate(ctx, from, to)
	if err != nil {
		if errors.Is(err, entity.ErrRateNotFound) {
			s.logger.Warn("exchange rate not available", map[string]interface{}{
				"base":  from,
				"quote": to,
			})
			return decimal.Decimal{}, entity.ErrRateUnavailable
		}
		return decimal.Decimal{}, entity.Wrap(err, "looking up rate %s/%s", from, to)
	}

	converted := amount.DivRound(rate.Rate, balanceScale)

	s.logger.Debug("converted amount", map[string]interface{}{
		"base":      from,
		"quote":     to,
		"rate":      rate.Rate.String(),
		"amount":    amount.String(),
		"converted": converted.String(),
	})

	return converted, nil
}
