package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-shop/internal/db"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/policy"
	"github.com/diewo77/go-shop/internal/server"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type harness struct {
	t   *testing.T
	db  *gorm.DB
	cfg *policy.RouterConfig
	app http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	d, err := db.OpenSQLite("file:app_" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := d.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(d))
	require.NoError(t, db.Seed(d, "admin123", time.Now()))

	cfg := policy.NewRouterConfig(d, nil)
	return &harness{t: t, db: d, cfg: cfg, app: server.NewApp(cfg, nil)}
}

// session is a cookie jar for one user.
type session struct {
	h       *harness
	cookies []*http.Cookie
	lang    string
}

func (h *harness) anonymous() *session { return &session{h: h} }

func (h *harness) login(email, password string) *session {
	h.t.Helper()
	s := h.anonymous()
	rec := s.do(http.MethodPost, "/login", map[string]string{"email": email, "password": password})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	s.cookies = rec.Result().Cookies()
	require.NotEmpty(h.t, s.cookies)
	return s
}

func (h *harness) addClient(email, password string) {
	h.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(h.t, err)
	require.NoError(h.t, h.db.Create(&models.User{Email: email, Password: string(hash), Kind: models.UserKindClient}).Error)
}

func (s *session) do(method, path string, body any) *httptest.ResponseRecorder {
	s.h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.lang != "" {
		req.Header.Set("Accept-Language", s.lang)
	}
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.h.app.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type cartBody struct {
	Lines []struct {
		ItemID    uint            `json:"item_id"`
		Quantity  int             `json:"quantity"`
		UnitPrice decimal.Decimal `json:"unit_price"`
		LineTotal decimal.Decimal `json:"line_total"`
	} `json:"lines"`
	Total          decimal.Decimal `json:"total"`
	DiscountCode   string          `json:"discount_code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Net            decimal.Decimal `json:"net"`
	NetDisplay     string          `json:"net_display"`
	LastNetAmount  decimal.Decimal `json:"last_net_amount"`
}

type orderBody struct {
	ID     uint               `json:"id"`
	Status models.OrderStatus `json:"status"`
	Net    decimal.Decimal    `json:"net"`
	Lines  []models.OrderLine `json:"lines"`
}

func (h *harness) itemID(name string) uint {
	h.t.Helper()
	var item models.CatalogItem
	require.NoError(h.t, h.db.Where("name = ?", name).First(&item).Error)
	return item.ID
}

func (h *harness) stock(id uint) int {
	h.t.Helper()
	var item models.CatalogItem
	require.NoError(h.t, h.db.First(&item, id).Error)
	return item.Stock
}

func TestHealthAndCatalog(t *testing.T) {
	h := newHarness(t)
	anon := h.anonymous()

	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/healthz", nil).Code)

	rec := anon.do(http.MethodGet, "/items?q=stylo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]models.CatalogItem](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "Stylo bille", items[0].Name)

	rec = anon.do(http.MethodGet, fmt.Sprintf("/items/%d", items[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[struct {
		Name   string             `json:"name"`
		Brands []models.ItemBrand `json:"brands"`
	}](t, rec)
	assert.Equal(t, "Stylo bille", detail.Name)
	assert.Len(t, detail.Brands, 2)

	assert.Equal(t, http.StatusNotFound, anon.do(http.MethodGet, "/items/9999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, anon.do(http.MethodGet, "/items/abc", nil).Code)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	anon := h.anonymous()

	rec := anon.do(http.MethodPost, "/login", map[string]string{"email": db.ClientEmail, "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decode[errorBody](t, rec).Error)

	rec = anon.do(http.MethodPost, "/login", map[string]string{"email": "ghost@shop.local", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = anon.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	s := h.login(strings.ToUpper(db.ClientEmail), "client123")
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/cart", nil).Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	h := newHarness(t)
	pen := h.itemID("Stylo bille")
	s := h.login(db.ClientEmail, "client123")

	rec := s.do(http.MethodPost, "/cart/items", map[string]any{"item_id": pen, "quantity": 12})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	c := decode[cartBody](t, rec)
	require.Len(t, c.Lines, 1)
	assert.True(t, c.Lines[0].UnitPrice.Equal(decimal.RequireFromString("1.5833")), c.Lines[0].UnitPrice.String())

	rec = s.do(http.MethodPut, "/cart/items/0", map[string]int{"quantity": 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	c = decode[cartBody](t, rec)
	assert.True(t, c.Lines[0].UnitPrice.Equal(decimal.RequireFromString("1.5")), c.Lines[0].UnitPrice.String())
	assert.True(t, c.Total.Equal(decimal.NewFromInt(15)))

	rec = s.do(http.MethodPost, "/cart/discount", map[string]string{"code": "welcome5"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	c = decode[cartBody](t, rec)
	assert.Equal(t, "WELCOME5", c.DiscountCode)
	assert.True(t, c.Net.Equal(decimal.NewFromInt(10)), c.Net.String())
	assert.Equal(t, "10.00", c.NetDisplay)

	rec = s.do(http.MethodPost, "/checkout", map[string]string{"note": "leave at door"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decode[struct {
		ID        uint            `json:"id"`
		Reference string          `json:"reference"`
		Net       decimal.Decimal `json:"net"`
	}](t, rec)
	assert.NotEmpty(t, out.Reference)
	assert.True(t, out.Net.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 490, h.stock(pen))

	c = decode[cartBody](t, s.do(http.MethodGet, "/cart", nil))
	assert.Empty(t, c.Lines)
	assert.True(t, c.LastNetAmount.Equal(decimal.NewFromInt(10)))

	list := decode[[]orderBody](t, s.do(http.MethodGet, "/orders", nil))
	require.Len(t, list, 1)
	assert.Equal(t, out.ID, list[0].ID)

	rec = s.do(http.MethodGet, fmt.Sprintf("/orders/%d", out.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	o := decode[orderBody](t, rec)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, 10, o.Lines[0].Quantity)
}

func TestCartErrors(t *testing.T) {
	h := newHarness(t)
	bag := h.itemID("Sac à dos")
	s := h.login(db.ClientEmail, "client123")
	s.lang = "en"

	rec := s.do(http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decode[errorBody](t, rec)
	assert.Equal(t, "empty_cart", e.Error)
	assert.Equal(t, "The cart is empty", e.Message)

	rec = s.do(http.MethodPost, "/cart/items", map[string]any{"item_id": bag, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_quantity", decode[errorBody](t, rec).Error)

	rec = s.do(http.MethodPost, "/cart/items", map[string]any{"item_id": bag, "quantity": 41})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_stock", decode[errorBody](t, rec).Error)

	rec = s.do(http.MethodPost, "/cart/items", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/cart/items/3", map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "index_out_of_range", decode[errorBody](t, rec).Error)

	rec = s.do(http.MethodPost, "/cart/discount", map[string]string{"code": "NOPE"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "discount_unknown", decode[errorBody](t, rec).Error)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/cart/items", map[string]any{"item_id": bag, "quantity": 1}).Code)
	rec = s.do(http.MethodPost, "/cart/discount", map[string]string{"code": "WELCOME5"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "discount_minimum_not_met", decode[errorBody](t, rec).Error)

	rec = s.do(http.MethodPut, "/cart/items/0", map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodDelete, "/cart/items/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[cartBody](t, rec).Lines)
}

func TestCheckoutStockDroppedLeavesCart(t *testing.T) {
	h := newHarness(t)
	bag := h.itemID("Sac à dos")
	s := h.login(db.ClientEmail, "client123")

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/cart/items", map[string]any{"item_id": bag, "quantity": 5}).Code)
	require.NoError(t, h.db.Model(&models.CatalogItem{}).Where("id = ?", bag).Update("stock", 2).Error)

	rec := s.do(http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_stock", decode[errorBody](t, rec).Error)

	c := decode[cartBody](t, s.do(http.MethodGet, "/cart", nil))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, 2, h.stock(bag))
}

func TestOrderOwnershipAndBackOffice(t *testing.T) {
	h := newHarness(t)
	pen := h.itemID("Stylo bille")
	h.addClient("other@shop.local", "other123")

	owner := h.login(db.ClientEmail, "client123")
	require.Equal(t, http.StatusOK, owner.do(http.MethodPost, "/cart/items", map[string]any{"item_id": pen, "quantity": 2}).Code)
	rec := owner.do(http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[orderBody](t, rec).ID
	orderPath := fmt.Sprintf("/orders/%d", id)

	other := h.login("other@shop.local", "other123")
	assert.Equal(t, http.StatusForbidden, other.do(http.MethodGet, orderPath, nil).Code)
	assert.Equal(t, http.StatusForbidden, other.do(http.MethodPost, orderPath+"/cancel", nil).Code)
	assert.Equal(t, http.StatusForbidden, owner.do(http.MethodPut, orderPath+"/status", map[string]string{"status": "validated"}).Code)

	admin := h.login(db.AdminEmail, "admin123")
	assert.Equal(t, http.StatusOK, admin.do(http.MethodGet, orderPath, nil).Code)

	rec = admin.do(http.MethodPut, orderPath+"/status", map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_transition", decode[errorBody](t, rec).Error)

	rec = admin.do(http.MethodPut, orderPath+"/status", map[string]string{"status": "validated"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.OrderStatusValidated, decode[orderBody](t, rec).Status)

	rec = owner.do(http.MethodPost, orderPath+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.OrderStatusCancelled, decode[orderBody](t, rec).Status)
	assert.Equal(t, 500, h.stock(pen))

	rec = owner.do(http.MethodPost, orderPath+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_cancelled", decode[errorBody](t, rec).Error)
	assert.Equal(t, 500, h.stock(pen))
}

func TestPaymentFlow(t *testing.T) {
	h := newHarness(t)
	pen := h.itemID("Stylo bille")
	owner := h.login(db.ClientEmail, "client123")
	require.Equal(t, http.StatusOK, owner.do(http.MethodPost, "/cart/items", map[string]any{"item_id": pen, "quantity": 1}).Code)
	rec := owner.do(http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	orderPath := fmt.Sprintf("/orders/%d", decode[orderBody](t, rec).ID)

	rec = owner.do(http.MethodPost, orderPath+"/payments", map[string]string{"amount": "0", "method": "card"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = owner.do(http.MethodPost, orderPath+"/payments", map[string]string{"amount": "2.00", "method": "card"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[models.Payment](t, rec)
	assert.Equal(t, models.PaymentStatusPending, p.Status)

	assert.Equal(t, http.StatusForbidden, owner.do(http.MethodPost, fmt.Sprintf("/payments/%d/process", p.ID), nil).Code)

	admin := h.login(db.AdminEmail, "admin123")
	rec = admin.do(http.MethodPost, fmt.Sprintf("/payments/%d/process", p.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.PaymentStatusAccepted, decode[models.Payment](t, rec).Status)

	o := decode[orderBody](t, owner.do(http.MethodGet, orderPath, nil))
	assert.Equal(t, models.OrderStatusValidated, o.Status)

	list := decode[[]models.Payment](t, owner.do(http.MethodGet, orderPath+"/payments", nil))
	assert.Len(t, list, 1)

	rec = owner.do(http.MethodPost, fmt.Sprintf("/payments/%d/cancel", p.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminCatalog(t *testing.T) {
	h := newHarness(t)
	client := h.login(db.ClientEmail, "client123")
	admin := h.login(db.AdminEmail, "admin123")

	item := map[string]any{"name": "Gomme", "unit_price": "0.80", "stock": 100}
	assert.Equal(t, http.StatusForbidden, client.do(http.MethodPost, "/admin/items", item).Code)

	rec := admin.do(http.MethodPost, "/admin/items", item)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotZero(t, decode[models.CatalogItem](t, rec).ID)

	admin.lang = "en"
	rec = admin.do(http.MethodPost, "/admin/items", map[string]any{"unit_price": "-1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	e := decode[errorBody](t, rec)
	assert.Equal(t, "invalid_input", e.Error)
	assert.Equal(t, "Required", e.Details["name"])
	assert.Equal(t, "Must be positive", e.Details["unit_price"])

	now := time.Now().UTC()
	code := map[string]any{
		"code": "autumn", "percentage": "15", "fixed_amount": "0",
		"starts_at": now.Add(-time.Hour), "ends_at": now.Add(24 * time.Hour),
	}
	rec = admin.do(http.MethodPost, "/admin/discounts", code)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "AUTUMN", decode[models.Discount](t, rec).Code)

	rec = admin.do(http.MethodPost, "/admin/discounts", code)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already exists", decode[errorBody](t, rec).Details["code"])

	rec = client.do(http.MethodPost, "/cart/items", map[string]any{"item_id": h.itemID("Gomme"), "quantity": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = client.do(http.MethodPost, "/cart/discount", map[string]string{"code": "autumn"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[cartBody](t, rec).Net.Equal(decimal.RequireFromString("6.8")))
}

func TestLogoutDropsCart(t *testing.T) {
	h := newHarness(t)
	s := h.login(db.ClientEmail, "client123")
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/cart/items", map[string]any{"item_id": h.itemID("Cahier A4"), "quantity": 1}).Code)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/logout", nil).Code)

	s = h.login(db.ClientEmail, "client123")
	assert.Empty(t, decode[cartBody](t, s.do(http.MethodGet, "/cart", nil)).Lines)
}
