package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a currency-denominated account owned by a single user.
// Balances are fixed-point decimals with two places and are mutated only by
// the transaction processor while the account row is locked.
type Account struct {
	ID            int64           `json:"id"`
	OwnerID       int64           `json:"owner_id"`
	AccountNumber uint64          `json:"account_number"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate ensures the account meets all requirements
func (a *Account) Validate() error {
	if !ValidCurrencyCode(a.Currency) {
		return ErrInvalidCurrency
	}
	if a.Balance.IsNegative() {
		return &Error{Kind: KindValidation, Message: "balance must not be negative"}
	}
	return nil
}

// ValidCurrencyCode reports whether code is a 3-letter uppercase currency code
func ValidCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
