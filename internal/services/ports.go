package services

import (
	"context"

	"github.com/diewo77/go-shop/internal/models"
)

// CatalogLookup reads the catalog.
type CatalogLookup interface {
	GetItem(ctx context.Context, id uint) (*models.CatalogItem, error)
	FindByName(ctx context.Context, substring string) ([]models.CatalogItem, error)
	// GetItemBrand returns the relation with Item and Brand loaded.
	GetItemBrand(ctx context.Context, id uint) (*models.ItemBrand, error)
	BrandsForItem(ctx context.Context, itemID uint) ([]models.ItemBrand, error)
}

// InventoryGateway reads and moves authoritative stock.
// Decrement never takes stock below zero; when the current stock is lower than
// qty it fails with a transaction_conflict error and changes nothing.
type InventoryGateway interface {
	CheckAvailability(ctx context.Context, itemID uint, qty int) (bool, error)
	Decrement(ctx context.Context, itemID uint, qty int) error
	Restore(ctx context.Context, itemID uint, qty int) error
}

// Persistence stores orders and their lines.
type Persistence interface {
	CreateOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) (uint, error)
	// UpdateOrderStatus moves the order from one status to another. It fails with
	// transaction_conflict when the stored status is no longer from.
	UpdateOrderStatus(ctx context.Context, id uint, from, to models.OrderStatus) error
	FindOrder(ctx context.Context, id uint) (*models.Order, error)
	FindLines(ctx context.Context, orderID uint) ([]models.OrderLine, error)
	FindByClient(ctx context.Context, clientID uint) ([]models.Order, error)
}

// PaymentRepository stores payments.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	FindPayment(ctx context.Context, id uint) (*models.Payment, error)
	FindPaymentsByOrder(ctx context.Context, orderID uint) ([]models.Payment, error)
	// UpdatePaymentStatus moves a payment from one status to another. It fails
	// with transaction_conflict if the payment is no longer in from.
	UpdatePaymentStatus(ctx context.Context, id uint, from, to models.PaymentStatus) error
}

// DiscountLookup finds promotional codes. FindByCode returns nil, nil when the
// code does not exist.
type DiscountLookup interface {
	FindByCode(ctx context.Context, code string) (*models.Discount, error)
}

// Repos groups the repositories bound to a single transaction.
type Repos struct {
	Inventory InventoryGateway
	Orders    Persistence
	Payments  PaymentRepository
}

// Transactor runs fn inside one database transaction. Returning an error from
// fn rolls back every write made through the given Repos.
type Transactor interface {
	InTx(ctx context.Context, fn func(Repos) error) error
}
