package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/quotation-labs/quotation-system/internal/domain/entity"
)

// BadgerExchangeRateRepository implements the exchange rate repository
// interface using BadgerDB. One key per ordered currency pair.
type BadgerExchangeRateRepository struct {
	db *badger.DB
}

// NewBadgerExchangeRateRepository creates a new BadgerDB rate repository
func NewBadgerExchangeRateRepository(db *badger.DB) *BadgerExchangeRateRepository {
	return &BadgerExchangeRateRepository{db: db}
}

// FindRate finds the rate for the ordered pair (base, quote)
func (r *BadgerExchangeRateRepository) FindRate(ctx context.Context, base, quote string) (*entity.ExchangeRate, error) {
	var rate entity.ExchangeRate

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(rateKey(base, quote))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rate)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, entity.ErrRateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rate: %w", err)
	}
	return &rate, nil
}

// StoreRate saves or replaces the rate for its currency pair
func (r *BadgerExchangeRateRepository) StoreRate(ctx context.Context, rate *entity.ExchangeRate) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("failed to marshal rate: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(rateKey(rate.Base, rate.Quote), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store rate: %w", err)
	}
	return nil
}

// ListRates retrieves every stored rate
func (r *BadgerExchangeRateRepository) ListRates(ctx context.Context) ([]*entity.ExchangeRate, error) {
	rates := make([]*entity.ExchangeRate, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ratePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(ratePrefix)); it.ValidForPrefix([]byte(ratePrefix)); it.Next() {
			var rate entity.ExchangeRate
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rate)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal rate: %w", err)
			}
			rt := rate
			rates = append(rates, &rt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}
