package policy

import (
	"context"
	"time"

	"github.com/diewo77/go-shop/internal/gate"
	"github.com/diewo77/go-shop/internal/handlers"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/diewo77/go-shop/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoleCacheTTL is how long a resolved role is trusted.
const RoleCacheTTL = 5 * time.Minute

// RouterConfig holds the configured handlers, services and gate.
type RouterConfig struct {
	AuthGate *AuthGate
	Store    *store.Store

	Orders   *services.OrderService
	Payments *services.PaymentService
	Catalog  *services.CatalogService

	Carts *handlers.CartRegistry

	AuthHandler    *handlers.AuthHandler
	CatalogHandler *handlers.CatalogHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	PaymentHandler *handlers.PaymentHandler
	AdminHandler   *handlers.AdminHandler
}

// NewRouterConfig wires the store, services and handlers over db.
//
// Orders are guarded by ownership; holders of manage_orders bypass it.
func NewRouterConfig(db *gorm.DB, log *zap.Logger) *RouterConfig {
	if log == nil {
		log = zap.NewNop()
	}
	st := store.New(db)

	authGate := NewAuthGate(db, RoleCacheTTL)
	authGate.RegisterPolicy(handlers.ResourceOrder, NewCapabilityBypassPolicy(
		NewOwnershipPolicy(),
		func(ctx context.Context, userID uint) bool {
			return authGate.HasCapability(ctx, userID, gate.ManageOrders)
		},
	))

	orders := services.NewOrderService(st, st, st, log.Named("orders"))
	payments := services.NewPaymentService(st, st, st, log.Named("payments"))
	catalog := services.NewCatalogService(st, st, st, log.Named("catalog"))
	carts := handlers.NewCartRegistry()

	return &RouterConfig{
		AuthGate:       authGate,
		Store:          st,
		Orders:         orders,
		Payments:       payments,
		Catalog:        catalog,
		Carts:          carts,
		AuthHandler:    handlers.NewAuthHandler(st, carts, log.Named("auth")),
		CatalogHandler: handlers.NewCatalogHandler(catalog),
		CartHandler:    handlers.NewCartHandler(carts, catalog),
		OrderHandler:   handlers.NewOrderHandler(orders, carts, authGate),
		PaymentHandler: handlers.NewPaymentHandler(payments, orders, authGate),
		AdminHandler:   handlers.NewAdminHandler(catalog),
	}
}
