package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/services"
)

func TestPayment_ProcessValidatesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payments := services.NewPaymentService(f.st, f.st, f.st, nil)
	order, err := f.orders.Checkout(ctx, f.cart(t, f.bag, 2), f.client.ID, "")
	if err != nil {
		t.Fatal(err)
	}

	p, err := payments.Create(ctx, order.ID, dec("50"), models.PaymentMethodCard)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != models.PaymentStatusPending {
		t.Fatalf("status %s", p.Status)
	}

	p, err = payments.Process(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != models.PaymentStatusAccepted || p.ProcessedAt == nil {
		t.Fatalf("unexpected payment %+v", p)
	}
	stored, _ := f.orders.FindOrder(ctx, order.ID)
	if stored.Status != models.OrderStatusValidated {
		t.Fatalf("order status %s", stored.Status)
	}

	if _, err := payments.Process(ctx, p.ID); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("second process: %v", err)
	}
	list, err := payments.ForOrder(ctx, order.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ForOrder: %v %d", err, len(list))
	}
}

func TestPayment_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payments := services.NewPaymentService(f.st, f.st, f.st, nil)
	order, err := f.orders.Checkout(ctx, f.cart(t, f.bag, 1), f.client.ID, "")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		orderID uint
		amount  string
		method  models.PaymentMethod
		want    error
	}{
		{"zero amount", order.ID, "0", models.PaymentMethodCard, apperr.ErrInvalidInput},
		{"negative amount", order.ID, "-5", models.PaymentMethodCard, apperr.ErrInvalidInput},
		{"unknown method", order.ID, "10", "cash", apperr.ErrInvalidInput},
		{"unknown order", 999, "10", models.PaymentMethodPayPal, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payments.Create(ctx, tt.orderID, dec(tt.amount), tt.method)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	if err := f.orders.Cancel(ctx, order.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := payments.Create(ctx, order.ID, dec("10"), models.PaymentMethodTransfer); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("payment on cancelled order: %v", err)
	}
}

func TestPayment_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payments := services.NewPaymentService(f.st, f.st, f.st, nil)
	order, err := f.orders.Checkout(ctx, f.cart(t, f.bag, 1), f.client.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	p, err := payments.Create(ctx, order.ID, dec("25"), models.PaymentMethodTransfer)
	if err != nil {
		t.Fatal(err)
	}
	p, err = payments.Cancel(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != models.PaymentStatusRefused {
		t.Fatalf("status %s", p.Status)
	}
	if _, err := payments.Cancel(ctx, p.ID); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("cancel refused payment: %v", err)
	}
	if _, err := payments.Process(ctx, p.ID); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("process refused payment: %v", err)
	}
	stored, _ := f.orders.FindOrder(ctx, order.ID)
	if stored.Status != models.OrderStatusPending {
		t.Fatalf("order should stay pending, got %s", stored.Status)
	}
}

func TestPayment_CancelOrderRefundsAcceptedPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payments := services.NewPaymentService(f.st, f.st, f.st, nil)
	order, err := f.orders.Checkout(ctx, f.cart(t, f.bag, 2), f.client.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	accepted, err := payments.Create(ctx, order.ID, dec("30"), models.PaymentMethodCard)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := payments.Process(ctx, accepted.ID); err != nil {
		t.Fatal(err)
	}
	refused, err := payments.Create(ctx, order.ID, dec("20"), models.PaymentMethodTransfer)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := payments.Cancel(ctx, refused.ID); err != nil {
		t.Fatal(err)
	}

	if err := f.orders.Cancel(ctx, order.ID); err != nil {
		t.Fatal(err)
	}

	got, err := payments.Find(ctx, accepted.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.PaymentStatusRefunded {
		t.Fatalf("accepted payment status %s, want refunded", got.Status)
	}
	got, err = payments.Find(ctx, refused.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.PaymentStatusRefused {
		t.Fatalf("refused payment status %s, want refused", got.Status)
	}
	if stock := f.stock(t, f.bag.ID); stock != 5 {
		t.Fatalf("bag stock = %d, want 5", stock)
	}
}

func TestPayment_CreateRejectsOverpayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payments := services.NewPaymentService(f.st, f.st, f.st, nil)
	order, err := f.orders.Checkout(ctx, f.cart(t, f.bag, 2), f.client.ID, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := payments.Create(ctx, order.ID, dec("50.01"), models.PaymentMethodCard); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("amount above net: %v", err)
	}
	first, err := payments.Create(ctx, order.ID, dec("30"), models.PaymentMethodCard)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := payments.Create(ctx, order.ID, dec("20.01"), models.PaymentMethodCard); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("amount above outstanding: %v", err)
	}
	if _, err := payments.Cancel(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := payments.Create(ctx, order.ID, dec("50"), models.PaymentMethodCard); err != nil {
		t.Fatalf("full amount after refusal: %v", err)
	}
}
