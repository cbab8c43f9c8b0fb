package services

import (
	"context"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records and settles payments against orders.
type PaymentService struct {
	orders   Persistence
	payments PaymentRepository
	tx       Transactor
	log      *zap.Logger
}

func NewPaymentService(orders Persistence, payments PaymentRepository, tx Transactor, log *zap.Logger) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{orders: orders, payments: payments, tx: tx, log: log}
}

// Create registers a pending payment for an order that is not cancelled.
// Partial payments are allowed, but the amount may not exceed what is still
// outstanding once pending and accepted payments are counted.
func (s *PaymentService) Create(ctx context.Context, orderID uint, amount decimal.Decimal, method models.PaymentMethod) (*models.Payment, error) {
	const op = "payments.Create"
	if !amount.IsPositive() {
		return nil, apperr.New(apperr.KindInvalidInput, op, "amount %s", amount)
	}
	if !method.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, op, "method %q", method)
	}
	order, err := s.orders.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsCancelled() {
		return nil, apperr.New(apperr.KindInvalidTransition, op, "order %d is cancelled", orderID)
	}
	existing, err := s.payments.FindPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	outstanding := order.Net()
	for _, ep := range existing {
		if ep.Status == models.PaymentStatusPending || ep.Status == models.PaymentStatusAccepted {
			outstanding = outstanding.Sub(ep.Amount)
		}
	}
	if amount.GreaterThan(outstanding) {
		return nil, apperr.New(apperr.KindInvalidInput, op, "amount %s exceeds outstanding %s", amount, outstanding.StringFixed(2))
	}
	p := &models.Payment{
		OrderID: orderID,
		Amount:  amount,
		Method:  method,
		Status:  models.PaymentStatusPending,
	}
	if err := s.payments.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("payment created", zap.Uint("payment_id", p.ID), zap.Uint("order_id", orderID),
		zap.String("amount", amount.String()), zap.String("method", string(method)))
	return p, nil
}

// Process accepts a pending payment and validates its order in the same
// transaction. An order already validated (or further) stays as it is.
func (s *PaymentService) Process(ctx context.Context, paymentID uint) (*models.Payment, error) {
	const op = "payments.Process"
	err := s.tx.InTx(ctx, func(r Repos) error {
		p, err := r.Payments.FindPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		if !p.IsPending() {
			return apperr.New(apperr.KindInvalidTransition, op, "payment %d is %s", paymentID, p.Status)
		}
		order, err := r.Orders.FindOrder(ctx, p.OrderID)
		if err != nil {
			return err
		}
		switch order.Status {
		case models.OrderStatusPending:
			if err := r.Orders.UpdateOrderStatus(ctx, order.ID, order.Status, models.OrderStatusValidated); err != nil {
				return err
			}
		case models.OrderStatusCancelled:
			return apperr.New(apperr.KindInvalidTransition, op, "order %d is cancelled", order.ID)
		}
		return r.Payments.UpdatePaymentStatus(ctx, paymentID, models.PaymentStatusPending, models.PaymentStatusAccepted)
	})
	if err != nil {
		return nil, classify(op, err)
	}
	s.log.Info("payment accepted", zap.Uint("payment_id", paymentID))
	return s.payments.FindPayment(ctx, paymentID)
}

// Cancel refuses a pending payment.
func (s *PaymentService) Cancel(ctx context.Context, paymentID uint) (*models.Payment, error) {
	const op = "payments.Cancel"
	p, err := s.payments.FindPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.IsPending() {
		return nil, apperr.New(apperr.KindInvalidTransition, op, "payment %d is %s", paymentID, p.Status)
	}
	if err := s.payments.UpdatePaymentStatus(ctx, paymentID, models.PaymentStatusPending, models.PaymentStatusRefused); err != nil {
		return nil, err
	}
	return s.payments.FindPayment(ctx, paymentID)
}

func (s *PaymentService) Find(ctx context.Context, paymentID uint) (*models.Payment, error) {
	return s.payments.FindPayment(ctx, paymentID)
}

func (s *PaymentService) ForOrder(ctx context.Context, orderID uint) ([]models.Payment, error) {
	return s.payments.FindPaymentsByOrder(ctx, orderID)
}
