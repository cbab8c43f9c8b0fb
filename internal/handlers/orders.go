package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/diewo77/go-shop/internal/auth"
	"github.com/diewo77/go-shop/internal/cart"
	"github.com/diewo77/go-shop/internal/gate"
	"github.com/diewo77/go-shop/internal/httpx"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/shopspring/decimal"
)

// Authorizer checks the request's user against a resource policy.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error
}

// ResourceOrder is the gate resource type for orders and their payments.
const ResourceOrder = "order"

type OrderHandler struct {
	orders *services.OrderService
	carts  *CartRegistry
	authz  Authorizer
}

func NewOrderHandler(orders *services.OrderService, carts *CartRegistry, authz Authorizer) *OrderHandler {
	return &OrderHandler{orders: orders, carts: carts, authz: authz}
}

type checkoutRequest struct {
	Note string `json:"note"`
}

type checkoutResponse struct {
	ID        uint            `json:"id"`
	Reference string          `json:"reference"`
	Net       decimal.Decimal `json:"net"`
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type orderDetail struct {
	orderView
	Lines []models.OrderLine `json:"lines"`
}

// Checkout turns the user's cart into an order. The body is optional.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := httpx.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, r, "malformed checkout body")
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())

	var resp checkoutResponse
	err := h.carts.With(uid, func(c *cart.Cart) error {
		order, err := h.orders.Checkout(r.Context(), c, uid, req.Note)
		if err != nil {
			return err
		}
		resp = checkoutResponse{ID: order.ID, Reference: order.Reference, Net: c.LastNetAmount()}
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, resp)
}

// List returns the caller's own orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	orders, err := h.orders.OrdersByClient(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]orderView, len(orders))
	for i := range orders {
		views[i] = newOrderView(&orders[i])
	}
	httpx.JSON(w, http.StatusOK, views)
}

// load fetches the order named by the path and checks action on it.
func (h *OrderHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Order, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	order, err := h.orders.FindOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if err := h.authz.Authorize(r.Context(), action, ResourceOrder, order); err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return order, true
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	lines, err := h.orders.OrderLines(r.Context(), order.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderDetail{orderView: newOrderView(order), Lines: lines})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(w, r, gate.ActionCancel)
	if !ok {
		return
	}
	if err := h.orders.Cancel(r.Context(), order.ID); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orders.FindOrder(r.Context(), order.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newOrderView(order))
}

// SetStatus moves an order along the state machine. Back office only.
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := httpx.Decode(r, &req); err != nil {
		badRequest(w, r, "malformed status")
		return
	}
	order, err := h.orders.Transition(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newOrderView(order))
}
