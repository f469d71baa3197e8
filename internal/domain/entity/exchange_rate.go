package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate quotes an ordered currency pair. An amount in the base
// currency is divided by Rate to obtain the amount in the quote currency.
type ExchangeRate struct {
	Base      string          `json:"base_currency"`
	Quote     string          `json:"quote_currency"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Validate ensures the rate meets all requirements
func (r *ExchangeRate) Validate() error {
	if !ValidCurrencyCode(r.Base) || !ValidCurrencyCode(r.Quote) {
		return ErrInvalidCurrency
	}
	if r.Base == r.Quote {
		return &Error{Kind: KindValidation, Message: "base and quote currencies must differ"}
	}
	if !r.Rate.IsPositive() {
		return &Error{Kind: KindValidation, Message: "rate must be a positive value"}
	}
	return nil
}
