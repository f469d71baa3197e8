package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/quotation-labs/quotation-system/internal/domain/repository"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/logger"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/middleware"
	"github.com/shopspring/decimal"
)

// ProcessInput carries one money-movement request into the processor.
// RelatedAccountID names the receiving account and is required for transfers.
type ProcessInput struct {
	Type             entity.TransactionType
	AccountID        int64
	RelatedAccountID *int64
	Amount           decimal.Decimal
	Currency         string
	Description      string
}

// TransactionService is the transaction processing engine. Process handles
// one request as a single atomic unit: it locks the affected accounts,
// converts currencies, validates, mutates balances, and commits the ledger
// entry together with the balance writes.
type TransactionService struct {
	accounts  repository.AccountRepository
	ledger    repository.TransactionRepository
	converter *ConversionService
	logger    logger.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(accounts repository.AccountRepository, ledger repository.TransactionRepository, converter *ConversionService, log logger.Logger) *TransactionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &TransactionService{
		accounts:  accounts,
		ledger:    ledger,
		converter: converter,
		logger:    log,
	}
}

// Process executes one money movement and returns its ledger entry. Every
// failure path leaves balances and the ledger untouched.
func (s *TransactionService) Process(ctx context.Context, ownerID int64, in ProcessInput) (*entity.Transaction, error) {
	requestID := middleware.GetRequestID(ctx)

	// Amounts are kept at two decimal places throughout.
	in.Amount = in.Amount.Round(balanceScale)

	if err := s.validate(in); err != nil {
		s.logger.Warn("transaction rejected", map[string]interface{}{
			"request_id": requestID,
			"owner_id":   ownerID,
			"type":       string(in.Type),
			"error":      err.Error(),
		})
		return nil, err
	}

	ids := []int64{in.AccountID}
	if in.Type == entity.TypeTransfer {
		ids = append(ids, *in.RelatedAccountID)
	}

	// LockAccounts orders acquisition by ascending id, so two concurrent
	// transfers between the same pair of accounts cannot deadlock.
	locked, release, err := s.accounts.LockAccounts(ctx, ownerID, ids...)
	if err != nil {
		return nil, err
	}
	defer release()

	source := locked[in.AccountID]
	now := time.Now().UTC()

	entry := &entity.Transaction{
		ID:               uuid.New().String(),
		OwnerID:          ownerID,
		AccountID:        in.AccountID,
		RelatedAccountID: in.RelatedAccountID,
		Type:             in.Type,
		Amount:           in.Amount,
		Currency:         in.Currency,
		PreviousBalance:  source.Balance,
		Description:      in.Description,
		CreatedAt:        now,
	}

	mutated := []*entity.Account{source}

	switch in.Type {
	case entity.TypeDeposit:
		converted, err := s.converter.Convert(ctx, in.Amount, in.Currency, source.Currency)
		if err != nil {
			return nil, err
		}
		source.Balance = source.Balance.Add(converted)

	case entity.TypeWithdrawal:
		converted, err := s.converter.Convert(ctx, in.Amount, in.Currency, source.Currency)
		if err != nil {
			return nil, err
		}
		if converted.GreaterThan(source.Balance) {
			return nil, entity.ErrInsufficientFunds
		}
		source.Balance = source.Balance.Sub(converted)

	case entity.TypeTransfer:
		receiver := locked[*in.RelatedAccountID]

		// Sufficiency is checked on the raw amount, in the sender's
		// currency units.
		if in.Amount.GreaterThan(source.Balance) {
			return nil, entity.ErrInsufficientFunds
		}

		credited, err := s.converter.Convert(ctx, in.Amount, source.Currency, receiver.Currency)
		if err != nil {
			return nil, err
		}

		source.Balance = source.Balance.Sub(in.Amount)
		receiver.Balance = receiver.Balance.Add(credited)
		receiver.UpdatedAt = now
		mutated = append(mutated, receiver)

		// The ledger records a transfer in the sender's currency,
		// whatever the request declared.
		entry.Currency = source.Currency
	}

	source.UpdatedAt = now
	entry.NewBalance = source.Balance

	if err := s.accounts.PersistWithLedger(ctx, mutated, entry); err != nil {
		return nil, entity.Wrap(err, "committing transaction %s", entry.ID)
	}

	s.logger.Info("transaction committed", map[string]interface{}{
		"request_id":       requestID,
		"transaction_id":   entry.ID,
		"owner_id":         ownerID,
		"type":             string(entry.Type),
		"account_id":       entry.AccountID,
		"amount":           entry.Amount.String(),
		"currency":         entry.Currency,
		"previous_balance": entry.PreviousBalance.String(),
		"new_balance":      entry.NewBalance.String(),
	})

	return entry, nil
}

// validate rejects malformed requests before any lock is taken
func (s *TransactionService) validate(in ProcessInput) error {
	if !in.Type.Valid() {
		return entity.ErrInvalidTransactionType
	}
	if !in.Amount.IsPositive() {
		return entity.ErrInvalidAmount
	}
	if in.Type == entity.TypeTransfer {
		if in.RelatedAccountID == nil {
			return entity.ErrRelatedAccountRequired
		}
		if *in.RelatedAccountID == in.AccountID {
			return &entity.Error{Kind: entity.KindValidation, Message: "related account must differ from the source account"}
		}
		// A transfer is denominated in the sender's currency; a declared
		// currency is accepted but never persisted.
		if in.Currency != "" && !entity.ValidCurrencyCode(in.Currency) {
			return entity.ErrInvalidCurrency
		}
		return nil
	}
	if !entity.ValidCurrencyCode(in.Currency) {
		return entity.ErrInvalidCurrency
	}
	return nil
}

// ListTransactions returns the owner's ledger entries, newest first
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID int64) ([]*entity.Transaction, error) {
	return s.ledger.ListByOwner(ctx, ownerID)
}

// GetTransaction retrieves one of the owner's ledger entries by id
func (s *TransactionService) GetTransaction(ctx context.Context, ownerID int64, id string) (*entity.Transaction, error) {
	return s.ledger.FindByID(ctx, ownerID, id)
}
