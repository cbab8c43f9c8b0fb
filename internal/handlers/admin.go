package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-shop/internal/httpx"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/shopspring/decimal"
)

// AdminHandler creates catalog entries. Routes are capability-guarded.
type AdminHandler struct {
	catalog *services.CatalogService
}

func NewAdminHandler(catalog *services.CatalogService) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

type itemRequest struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	ImageURL      string              `json:"image_url"`
	UnitPrice     decimal.Decimal     `json:"unit_price"`
	BulkPrice     decimal.NullDecimal `json:"bulk_price"`
	BulkThreshold *int                `json:"bulk_threshold"`
	Stock         int                 `json:"stock"`
}

type discountCreateRequest struct {
	Code        string          `json:"code"`
	Percentage  decimal.Decimal `json:"percentage"`
	FixedAmount decimal.Decimal `json:"fixed_amount"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      time.Time       `json:"ends_at"`
	MinQuantity int             `json:"min_quantity"`
}

func (h *AdminHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.Decode(r, &req); err != nil {
		badRequest(w, r, "malformed item")
		return
	}
	item := &models.CatalogItem{
		Name:          req.Name,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		UnitPrice:     req.UnitPrice,
		BulkPrice:     req.BulkPrice,
		BulkThreshold: req.BulkThreshold,
		Stock:         req.Stock,
	}
	if err := h.catalog.CreateItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *AdminHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountCreateRequest
	if err := httpx.Decode(r, &req); err != nil {
		badRequest(w, r, "malformed discount")
		return
	}
	d := &models.Discount{
		Code:        req.Code,
		Percentage:  req.Percentage,
		FixedAmount: req.FixedAmount,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		MinQuantity: req.MinQuantity,
	}
	if err := h.catalog.CreateDiscount(r.Context(), d); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, d)
}
