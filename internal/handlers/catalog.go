package handlers

import (
	"net/http"

	"github.com/diewo77/go-shop/internal/httpx"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/services"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Search lists items whose name contains ?q= (all items when empty).
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.catalog.Item(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	brands, err := h.catalog.Brands(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, itemDetail{CatalogItem: item, Brands: brands})
}

type itemDetail struct {
	*models.CatalogItem
	Brands []models.ItemBrand `json:"brands"`
}
