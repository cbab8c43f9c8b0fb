// Package store implements the service ports on top of gorm.
//
// A Store either wraps the root *gorm.DB or, inside InTx, the transaction
// handle. The same methods serve both cases.
package store

import (
	"context"
	"errors"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/services"
	"gorm.io/gorm"
)

// ErrStockConflict is wrapped by Decrement when the conditional update matched
// no row: the stock is lower than requested.
var ErrStockConflict = errors.New("stock lower than requested quantity")

// ErrStatusConflict is wrapped when a conditional status update matched no row.
var ErrStatusConflict = errors.New("status changed concurrently")

// Store is the gorm-backed repository.
type Store struct {
	db *gorm.DB
}

// New returns a Store over db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// InTx runs fn in a gorm transaction. The Repos handed to fn are bound to the
// transaction; any error returned by fn rolls it back.
func (s *Store) InTx(ctx context.Context, fn func(services.Repos) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := &Store{db: tx}
		return fn(services.Repos{
			Inventory: txStore,
			Orders:    txStore,
			Payments:  txStore,
		})
	})
}

// dbErr maps a gorm error to a domain error.
func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.KindNotFound, op, err)
	}
	return apperr.Wrap(apperr.KindPersistenceFailure, op, err)
}

var (
	_ services.CatalogLookup     = (*Store)(nil)
	_ services.InventoryGateway  = (*Store)(nil)
	_ services.Persistence       = (*Store)(nil)
	_ services.PaymentRepository = (*Store)(nil)
	_ services.DiscountLookup    = (*Store)(nil)
	_ services.Transactor        = (*Store)(nil)
)
