package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-shop/internal/auth"
	"github.com/diewo77/go-shop/internal/cart"
	"github.com/diewo77/go-shop/internal/httpx"
	"github.com/diewo77/go-shop/internal/services"
)

// CartHandler drives the signed-in user's cart.
type CartHandler struct {
	carts   *CartRegistry
	catalog *services.CatalogService
	now     func() time.Time
}

func NewCartHandler(carts *CartRegistry, catalog *services.CatalogService) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog, now: time.Now}
}

type addItemRequest struct {
	ItemID      uint `json:"item_id"`
	ItemBrandID uint `json:"item_brand_id"`
	Quantity    int  `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type discountRequest struct {
	Code string `json:"code"`
}

// mutate runs fn on the user's cart and answers with the resulting cart view.
func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(*cart.Cart) error) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var view cartView
	err := h.carts.With(uid, func(c *cart.Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		view = newCartView(c)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(*cart.Cart) error { return nil })
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		badRequest(w, r, "malformed cart item")
		return
	}
	if (req.ItemID == 0) == (req.ItemBrandID == 0) {
		badRequest(w, r, "exactly one of item_id and item_brand_id is required")
		return
	}

	ctx := r.Context()
	if req.ItemBrandID != 0 {
		ib, err := h.catalog.ItemBrand(ctx, req.ItemBrandID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		h.mutate(w, r, func(c *cart.Cart) error { return c.AddBrandItem(ib, req.Quantity) })
		return
	}
	item, err := h.catalog.Item(ctx, req.ItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.mutate(w, r, func(c *cart.Cart) error { return c.AddItem(item, req.Quantity) })
}

func (h *CartHandler) ModifyQuantity(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req quantityRequest
	if err := httpx.Decode(r, &req); err != nil {
		badRequest(w, r, "malformed quantity")
		return
	}
	h.mutate(w, r, func(c *cart.Cart) error { return c.ModifyQuantity(index, req.Quantity) })
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.mutate(w, r, func(c *cart.Cart) error { return c.RemoveItem(index) })
}

func (h *CartHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := httpx.Decode(r, &req); err != nil {
		badRequest(w, r, "malformed discount")
		return
	}
	d, err := h.catalog.Discount(r.Context(), req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.mutate(w, r, func(c *cart.Cart) error { return c.ApplyDiscount(d, h.now()) })
}

func (h *CartHandler) ClearDiscount(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(c *cart.Cart) error {
		c.ClearDiscount()
		return nil
	})
}

func (h *CartHandler) Empty(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(c *cart.Cart) error {
		c.Empty()
		return nil
	})
}
