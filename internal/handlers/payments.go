package handlers

import (
	"net/http"

	"github.com/diewo77/go-shop/internal/gate"
	"github.com/diewo77/go-shop/internal/httpx"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	payments *services.PaymentService
	orders   *services.OrderService
	authz    Authorizer
}

func NewPaymentHandler(payments *services.PaymentService, orders *services.OrderService, authz Authorizer) *PaymentHandler {
	return &PaymentHandler{payments: payments, orders: orders, authz: authz}
}

type paymentRequest struct {
	Amount decimal.Decimal      `json:"amount"`
	Method models.PaymentMethod `json:"method"`
}

// authorizeOrder checks action on the order owning a payment.
func (h *PaymentHandler) authorizeOrder(r *http.Request, orderID uint, action gate.Action) error {
	order, err := h.orders.FindOrder(r.Context(), orderID)
	if err != nil {
		return err
	}
	return h.authz.Authorize(r.Context(), action, ResourceOrder, order)
}

// Create registers a pending payment on /orders/{id}/payments.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req paymentRequest
	if err := httpx.Decode(r, &req); err != nil {
		badRequest(w, r, "malformed payment")
		return
	}
	if err := h.authorizeOrder(r, orderID, gate.ActionPay); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.payments.Create(r.Context(), orderID, req.Amount, req.Method)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authorizeOrder(r, orderID, gate.ActionView); err != nil {
		writeError(w, r, err)
		return
	}
	ps, err := h.payments.ForOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ps)
}

// Process accepts a payment. Back office only.
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.payments.Process(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.payments.Find(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authorizeOrder(r, p.OrderID, gate.ActionPay); err != nil {
		writeError(w, r, err)
		return
	}
	p, err = h.payments.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}
