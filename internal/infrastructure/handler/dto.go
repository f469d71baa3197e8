package handler

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// CreateTransactionRequest is the request body for POST /transactions.
// Currency may be omitted for transfers; the sender's currency applies.
type CreateTransactionRequest struct {
	TransactionType  string          `json:"transaction_type" validate:"required"`
	AccountID        int64           `json:"account_id" validate:"required,gt=0"`
	RelatedAccountID *int64          `json:"related_account_id,omitempty"`
	Amount           decimal.Decimal `json:"amount" validate:"required"`
	Currency         string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	Description      string          `json:"description" validate:"max=255"`
}

// TransactionResponse is the wire form of a ledger entry
type TransactionResponse struct {
	ID               string          `json:"id"`
	TransactionType  string          `json:"transaction_type"`
	AccountID        int64           `json:"account_id"`
	RelatedAccountID *int64          `json:"related_account_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	PreviousBalance  decimal.Decimal `json:"previous_balance"`
	NewBalance       decimal.Decimal `json:"new_balance"`
	Description      string          `json:"description"`
	CreatedAt        string          `json:"created_at"`
}

func toTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               tx.ID,
		TransactionType:  string(tx.Type),
		AccountID:        tx.AccountID,
		RelatedAccountID: tx.RelatedAccountID,
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		PreviousBalance:  tx.PreviousBalance,
		NewBalance:       tx.NewBalance,
		Description:      tx.Description,
		CreatedAt:        tx.CreatedAt.Format(time.RFC3339Nano),
	}
}

// CreateAccountRequest is the request body for POST /accounts
type CreateAccountRequest struct {
	Currency string `json:"currency" validate:"required,len=3,uppercase"`
}

// AccountResponse is the wire form of an account
type AccountResponse struct {
	ID            int64           `json:"id"`
	AccountNumber uint64          `json:"account_number"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

func toAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		Currency:      a.Currency,
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// UpsertRateRequest is the request body for PUT /rates
type UpsertRateRequest struct {
	BaseCurrency  string          `json:"base_currency" validate:"required,len=3,uppercase"`
	QuoteCurrency string          `json:"quote_currency" validate:"required,len=3,uppercase"`
	Rate          decimal.Decimal `json:"rate" validate:"required"`
}

// RateResponse is the wire form of an exchange rate
type RateResponse struct {
	BaseCurrency  string          `json:"base_currency"`
	QuoteCurrency string          `json:"quote_currency"`
	Rate          decimal.Decimal `json:"rate"`
	UpdatedAt     string          `json:"updated_at"`
}

func toRateResponse(r *entity.ExchangeRate) RateResponse {
	return RateResponse{
		BaseCurrency:  r.Base,
		QuoteCurrency: r.Quote,
		Rate:          r.Rate,
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// ErrorResponse is the standardized error body
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}
