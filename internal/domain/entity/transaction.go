package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of money movement a transaction records
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
)

// Valid reports whether t is one of the recognized transaction types
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry describing one committed money
// movement. PreviousBalance and NewBalance always describe the source
// account, in that account's own currency.
type Transaction struct {
	ID               string          `json:"id"`
	OwnerID          int64           `json:"owner_id"`
	AccountID        int64           `json:"account_id"`
	RelatedAccountID *int64          `json:"related_account_id,omitempty"`
	Type             TransactionType `json:"transaction_type"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	PreviousBalance  decimal.Decimal `json:"previous_balance"`
	NewBalance       decimal.Decimal `json:"new_balance"`
	Description      string          `json:"description"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Validate ensures the ledger entry meets all requirements
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidTransactionType
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !ValidCurrencyCode(t.Currency) {
		return ErrInvalidCurrency
	}
	if t.Type == TypeTransfer && t.RelatedAccountID == nil {
		return ErrRelatedAccountRequired
	}
	return nil
}
