package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/diewo77/go-shop/internal/validation"
	"github.com/shopspring/decimal"
)

func TestValidateItem(t *testing.T) {
	ten, zero := 10, 0
	tests := []struct {
		name  string
		item  models.CatalogItem
		field string
		code  string
	}{
		{"missing name", models.CatalogItem{UnitPrice: dec("1")}, "name", "required"},
		{"zero price", models.CatalogItem{Name: "x"}, "unit_price", "must_be_positive"},
		{"negative stock", models.CatalogItem{Name: "x", UnitPrice: dec("1"), Stock: -1}, "stock", "out_of_range"},
		{"bulk price alone", models.CatalogItem{Name: "x", UnitPrice: dec("1"), BulkPrice: decimal.NewNullDecimal(dec("0.5"))}, "bulk_price", "invalid_pair"},
		{"threshold alone", models.CatalogItem{Name: "x", UnitPrice: dec("1"), BulkThreshold: &ten}, "bulk_price", "invalid_pair"},
		{"zero threshold", models.CatalogItem{Name: "x", UnitPrice: dec("1"), BulkPrice: decimal.NewNullDecimal(dec("0.5")), BulkThreshold: &zero}, "bulk_threshold", "out_of_range"},
		{"zero bulk price", models.CatalogItem{Name: "x", UnitPrice: dec("1"), BulkPrice: decimal.NewNullDecimal(decimal.Zero), BulkThreshold: &ten}, "bulk_price", "must_be_positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := services.ValidateItem(&tt.item)
			if v[tt.field] != tt.code {
				t.Fatalf("%s: got %q want %q (%v)", tt.field, v[tt.field], tt.code, v)
			}
		})
	}

	ok := models.CatalogItem{Name: "Pen", UnitPrice: dec("2"), BulkPrice: decimal.NewNullDecimal(dec("1.5")), BulkThreshold: &ten}
	if v := services.ValidateItem(&ok); !v.Empty() {
		t.Fatalf("valid item rejected: %v", v)
	}
}

func TestCatalogService_CreateDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := services.NewCatalogService(f.st, f.st, f.st, nil)
	now := time.Now()

	d := &models.Discount{Code: " summer10 ", Percentage: dec("10"), FixedAmount: decimal.Zero, StartsAt: now, EndsAt: now.AddDate(0, 1, 0)}
	if err := svc.CreateDiscount(ctx, d); err != nil {
		t.Fatal(err)
	}
	if d.Code != "SUMMER10" || d.MinQuantity != 1 {
		t.Fatalf("normalization: %+v", d)
	}
	got, err := svc.Discount(ctx, "summer10")
	if err != nil || got.ID != d.ID {
		t.Fatalf("lookup: %v %+v", err, got)
	}

	dup := &models.Discount{Code: "SUMMER10", Percentage: dec("5"), FixedAmount: decimal.Zero, StartsAt: now, EndsAt: now}
	err = svc.CreateDiscount(ctx, dup)
	var v validation.Violations
	if !errors.Is(err, apperr.ErrInvalidInput) || !errors.As(err, &v) || v["code"] != "already_exists" {
		t.Fatalf("duplicate: %v", err)
	}

	bad := &models.Discount{Code: "BAD", Percentage: dec("120"), FixedAmount: dec("-1"), StartsAt: now, EndsAt: now.Add(-time.Hour), MinQuantity: -2}
	err = svc.CreateDiscount(ctx, bad)
	if !errors.As(err, &v) {
		t.Fatalf("expected violations, got %v", err)
	}
	for _, field := range []string{"percentage", "fixed_amount", "ends_at", "min_quantity"} {
		if v[field] == "" {
			t.Errorf("missing violation for %s: %v", field, v)
		}
	}

	if _, err := svc.Discount(ctx, "NOPE"); !errors.Is(err, apperr.ErrDiscountUnknown) {
		t.Fatalf("unknown code: %v", err)
	}
}

func TestCatalogService_CreateAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := services.NewCatalogService(f.st, f.st, f.st, nil)

	if err := svc.CreateItem(ctx, &models.CatalogItem{Name: "  Pencil case ", UnitPrice: dec("4.20"), Stock: 3}); err != nil {
		t.Fatal(err)
	}
	if err := svc.CreateItem(ctx, &models.CatalogItem{Name: "", UnitPrice: dec("1")}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("invalid item: %v", err)
	}

	items, err := svc.Search(ctx, "PEN")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Name != "Pen" || items[1].Name != "Pencil case" {
		t.Fatalf("search: %+v", items)
	}
	all, _ := svc.Search(ctx, "")
	if len(all) != 3 {
		t.Fatalf("want 3 items, got %d", len(all))
	}
	if _, err := svc.Item(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing item: %v", err)
	}
}
