// Package services holds the cart-to-order pipeline and the back-office
// operations built on the repository ports declared in ports.go.
package services

import (
	"context"
	"errors"
	"slices"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/cart"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService turns carts into orders and drives the order state machine.
type OrderService struct {
	inventory InventoryGateway
	orders    Persistence
	tx        Transactor
	log       *zap.Logger
}

// NewOrderService wires the service. inventory and orders are used for reads
// outside transactions; writes always go through tx.
func NewOrderService(inventory InventoryGateway, orders Persistence, tx Transactor, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{inventory: inventory, orders: orders, tx: tx, log: log}
}

// Checkout validates the cart against current stock, decrements every line and
// stores the order with its lines, all or nothing. On success the cart is
// emptied and its net amount kept as LastNetAmount. On failure the cart is left
// untouched.
func (s *OrderService) Checkout(ctx context.Context, c *cart.Cart, clientID uint, note string) (*models.Order, error) {
	const op = "orders.Checkout"
	if c.IsEmpty() {
		return nil, apperr.New(apperr.KindEmptyCart, op, "client %d", clientID)
	}
	lines := c.Lines()

	// Lines of the same item under different brands draw on the same stock.
	need := map[uint]int{}
	for _, l := range lines {
		need[l.Item.ID] += l.Quantity
	}
	itemIDs := make([]uint, 0, len(need))
	for id := range need {
		itemIDs = append(itemIDs, id)
	}
	slices.Sort(itemIDs)

	for _, id := range itemIDs {
		ok, err := s.inventory.CheckAvailability(ctx, id, need[id])
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.New(apperr.KindInsufficientStock, op, "item %d no longer in catalog", id)
			}
			return nil, apperr.Wrap(apperr.KindPersistenceFailure, op, err)
		}
		if !ok {
			return nil, apperr.New(apperr.KindInsufficientStock, op, "item %d: want %d", id, need[id])
		}
	}

	order := &models.Order{
		Reference:      uuid.NewString(),
		ClientID:       clientID,
		Status:         models.OrderStatusPending,
		Total:          c.Total(),
		DiscountAmount: c.DiscountAmount(),
		DiscountCode:   c.DiscountCode(),
		Note:           note,
	}
	orderLines := make([]models.OrderLine, len(lines))
	for i, l := range lines {
		orderLines[i] = models.OrderLine{
			ItemID:      l.Item.ID,
			ItemBrandID: l.ItemBrandID(),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		}
	}

	err := s.tx.InTx(ctx, func(r Repos) error {
		// Fixed item order keeps concurrent checkouts from locking rows in
		// opposite orders.
		for _, id := range itemIDs {
			if err := r.Inventory.Decrement(ctx, id, need[id]); err != nil {
				if apperr.Is(err, apperr.KindTransactionConflict) {
					return err
				}
				return apperr.Wrap(apperr.KindPersistenceFailure, op, err)
			}
		}
		if _, err := r.Orders.CreateOrder(ctx, order, orderLines); err != nil {
			return apperr.Wrap(apperr.KindPersistenceFailure, op, err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("checkout rolled back",
			zap.Uint("client_id", clientID),
			zap.Int("lines", len(lines)),
			zap.String("kind", apperr.KindOf(err).String()),
			zap.Error(err))
		if apperr.KindOf(err) == apperr.KindUnknown {
			return nil, apperr.Wrap(apperr.KindPersistenceFailure, op, err)
		}
		return nil, err
	}

	net := c.Finalize()
	s.log.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("reference", order.Reference),
		zap.Uint("client_id", clientID),
		zap.Int("lines", len(orderLines)),
		zap.String("total", order.Total.String()),
		zap.String("discount", order.DiscountAmount.String()),
		zap.String("net", net.String()))
	return order, nil
}

// Cancel cancels a pending or validated order, puts its quantities back in
// stock and refunds its accepted payments, in one transaction.
func (s *OrderService) Cancel(ctx context.Context, orderID uint) error {
	const op = "orders.Cancel"
	var restored, refunded int
	err := s.tx.InTx(ctx, func(r Repos) error {
		order, err := r.Orders.FindOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.IsCancelled() {
			return apperr.New(apperr.KindAlreadyCancelled, op, "order %d", orderID)
		}
		if !order.CanCancel() {
			return apperr.New(apperr.KindInvalidTransition, op, "order %d is %s", orderID, order.Status)
		}
		// The status flip comes first so a concurrent cancel loses before
		// touching stock.
		if err := r.Orders.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderStatusCancelled); err != nil {
			if apperr.Is(err, apperr.KindTransactionConflict) {
				return apperr.New(apperr.KindAlreadyCancelled, op, "order %d changed concurrently", orderID)
			}
			return err
		}
		lines, err := r.Orders.FindLines(ctx, orderID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := r.Inventory.Restore(ctx, l.ItemID, l.Quantity); err != nil {
				return err
			}
			restored += l.Quantity
		}
		payments, err := r.Payments.FindPaymentsByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		for _, p := range payments {
			if p.Status != models.PaymentStatusAccepted {
				continue
			}
			if err := r.Payments.UpdatePaymentStatus(ctx, p.ID, models.PaymentStatusAccepted, models.PaymentStatusRefunded); err != nil {
				return err
			}
			refunded++
		}
		return nil
	})
	if err != nil {
		return classify(op, err)
	}
	s.log.Info("order cancelled", zap.Uint("order_id", orderID),
		zap.Int("units_restored", restored), zap.Int("payments_refunded", refunded))
	return nil
}

// Transition moves an order along pending -> validated -> shipped -> delivered.
// Cancellation is delegated to Cancel so stock is restored.
func (s *OrderService) Transition(ctx context.Context, orderID uint, to models.OrderStatus) (*models.Order, error) {
	const op = "orders.Transition"
	if !to.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, op, "status %q", to)
	}
	if to == models.OrderStatusCancelled {
		if err := s.Cancel(ctx, orderID); err != nil {
			return nil, err
		}
		return s.FindOrder(ctx, orderID)
	}
	err := s.tx.InTx(ctx, func(r Repos) error {
		order, err := r.Orders.FindOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(to) {
			return apperr.New(apperr.KindInvalidTransition, op, "%s -> %s", order.Status, to)
		}
		return r.Orders.UpdateOrderStatus(ctx, orderID, order.Status, to)
	})
	if err != nil {
		return nil, classify(op, err)
	}
	s.log.Info("order status changed", zap.Uint("order_id", orderID), zap.String("status", string(to)))
	return s.FindOrder(ctx, orderID)
}

func (s *OrderService) FindOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.orders.FindOrder(ctx, id)
}

func (s *OrderService) OrderLines(ctx context.Context, orderID uint) ([]models.OrderLine, error) {
	return s.orders.FindLines(ctx, orderID)
}

func (s *OrderService) OrdersByClient(ctx context.Context, clientID uint) ([]models.Order, error) {
	return s.orders.FindByClient(ctx, clientID)
}

// classify keeps domain errors as they are and marks anything else as a
// persistence failure.
func classify(op string, err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.Wrap(apperr.KindPersistenceFailure, op, err)
}
