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

// AccountService handles owner-scoped account management around the
// transaction core.
type AccountService struct {
	accounts repository.AccountRepository
	logger   logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accounts repository.AccountRepository, log logger.Logger) *AccountService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &AccountService{accounts: accounts, logger: log}
}

// Open creates a zero-balance account in the given currency. The repository
// assigns the next sequential account number.
func (s *AccountService) Open(ctx context.Context, ownerID int64, currency string) (*entity.Account, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	now := time.Now().UTC()
	account := &entity.Account{
		OwnerID:   ownerID,
		Currency:  currency,
		Balance:   decimal.Zero.Round(balanceScale),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, entity.Wrap(err, "opening account for owner %d", ownerID)
	}

	s.logger.Info("account opened", map[string]interface{}{
		"owner_id":       ownerID,
		"account_id":     account.ID,
		"account_number": account.AccountNumber,
		"currency":       account.Currency,
	})

	return account, nil
}

// List returns every account belonging to the owner
func (s *AccountService) List(ctx context.Context, ownerID int64) ([]*entity.Account, error) {
	return s.accounts.ListByOwner(ctx, ownerID)
}

// Get retrieves one of the owner's accounts by id
func (s *AccountService) Get(ctx context.Context, ownerID, id int64) (*entity.Account, error) {
	return s.accounts.FindByID(ctx, ownerID, id)
}

// Close removes an account. Accounts holding a balance cannot be closed.
func (s *AccountService) Close(ctx context.Context, ownerID, id int64) error {
	// Lock the account so a concurrent transaction cannot slip a balance
	// in between the check and the delete.
	locked, release, err := s.accounts.LockAccounts(ctx, ownerID, id)
	if err != nil {
		return err
	}
	defer release()

	if !locked[id].Balance.IsZero() {
		return entity.ErrAccountNotEmpty
	}

	if err := s.accounts.Delete(ctx, ownerID, id); err != nil {
		return entity.Wrap(err, "closing account %d", id)
	}

	s.logger.Info("account closed", map[string]interface{}{
		"owner_id":   ownerID,
		"account_id": id,
	})

	return nil
}
