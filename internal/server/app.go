// Package server assembles the HTTP surface: the route table, its guards and
// the global middleware chain.
package server

import (
	"net/http"

	"github.com/diewo77/go-shop/internal/auth"
	"github.com/diewo77/go-shop/internal/gate"
	"github.com/diewo77/go-shop/internal/httpx"
	"github.com/diewo77/go-shop/internal/i18n"
	"github.com/diewo77/go-shop/internal/obs"
	"github.com/diewo77/go-shop/internal/policy"
	"go.uber.org/zap"
)

// App is the application handler.
type App struct {
	mux     *http.ServeMux
	cfg     *policy.RouterConfig
	handler http.Handler
}

// NewApp registers every route. log receives one access line per request.
func NewApp(cfg *policy.RouterConfig, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{mux: http.NewServeMux(), cfg: cfg}
	a.setupRoutes()
	a.handler = obs.AccessLog(log, auth.Middleware(i18n.Middleware(a.mux)))
	return a
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	ah := a.cfg.AuthHandler
	ch := a.cfg.CatalogHandler
	cart := a.cfg.CartHandler
	oh := a.cfg.OrderHandler
	ph := a.cfg.PaymentHandler
	adm := a.cfg.AdminHandler

	// Public
	a.mux.HandleFunc("GET /healthz", a.health)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("GET /items", ch.Search)
	a.mux.HandleFunc("GET /items/{id}", ch.Get)

	// Cart and checkout
	a.mux.Handle("GET /cart", requireAuth(cart.View))
	a.mux.Handle("DELETE /cart", requireAuth(cart.Empty))
	a.mux.Handle("POST /cart/items", requireAuth(cart.AddItem))
	a.mux.Handle("PUT /cart/items/{index}", requireAuth(cart.ModifyQuantity))
	a.mux.Handle("DELETE /cart/items/{index}", requireAuth(cart.RemoveItem))
	a.mux.Handle("POST /cart/discount", requireAuth(cart.ApplyDiscount))
	a.mux.Handle("DELETE /cart/discount", requireAuth(cart.ClearDiscount))
	a.mux.Handle("POST /checkout", requireAuth(oh.Checkout))

	// Orders and payments; ownership is checked in the handlers
	a.mux.Handle("GET /orders", requireAuth(oh.List))
	a.mux.Handle("GET /orders/{id}", requireAuth(oh.Get))
	a.mux.Handle("POST /orders/{id}/cancel", requireAuth(oh.Cancel))
	a.mux.Handle("GET /orders/{id}/payments", requireAuth(ph.List))
	a.mux.Handle("POST /orders/{id}/payments", requireAuth(ph.Create))
	a.mux.Handle("POST /payments/{id}/cancel", requireAuth(ph.Cancel))

	// Back office
	a.mux.Handle("PUT /orders/{id}/status", a.requireCapability(gate.ManageOrders, oh.SetStatus))
	a.mux.Handle("POST /payments/{id}/process", a.requireCapability(gate.ManageOrders, ph.Process))
	a.mux.Handle("POST /admin/items", a.requireCapability(gate.ManageItems, adm.CreateItem))
	a.mux.Handle("POST /admin/discounts", a.requireCapability(gate.ManageDiscounts, adm.CreateDiscount))
}

// health answers 503 when the database does not respond to SELECT 1.
func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if err := a.cfg.Store.DB().WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requireAuth(h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(h)
}

func (a *App) requireCapability(c gate.Capability, h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(a.cfg.AuthGate.RequireCapability(c)(h))
}
