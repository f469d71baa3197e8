// Package mocks carries testify mocks for the domain repository interfaces.
package mocks

import (
	"context"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository mocks the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, ownerID, id int64) (*entity.Account, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) Delete(ctx context.Context, ownerID, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockAccountRepository) LockAccounts(ctx context.Context, ownerID int64, ids ...int64) (map[int64]*entity.Account, func(), error) {
	args := m.Called(ctx, ownerID, ids)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	release, _ := args.Get(1).(func())
	if release == nil {
		release = func() {}
	}
	return args.Get(0).(map[int64]*entity.Account), release, args.Error(2)
}

func (m *MockAccountRepository) PersistWithLedger(ctx context.Context, accounts []*entity.Account, tx *entity.Transaction) error {
	args := m.Called(ctx, accounts, tx)
	return args.Error(0)
}

// MockTransactionRepository mocks the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, ownerID int64, id string) (*entity.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Transaction, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

// MockExchangeRateRepository mocks the ExchangeRateRepository interface
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRate(ctx context.Context, base, quote string) (*entity.ExchangeRate, error) {
	args := m.Called(ctx, base, quote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) StoreRate(ctx context.Context, rate *entity.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) ListRates(ctx context.Context) ([]*entity.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ExchangeRate), args.Error(1)
}
