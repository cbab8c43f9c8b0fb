package handlers

import (
	"sync"

	"github.com/diewo77/go-shop/internal/cart"
)

type sessionCart struct {
	mu   sync.Mutex
	cart *cart.Cart
}

// CartRegistry keeps one cart per user. The registry is shared between
// requests; With serializes access to a single user's cart.
type CartRegistry struct {
	mu    sync.Mutex
	carts map[uint]*sessionCart
}

func NewCartRegistry() *CartRegistry {
	return &CartRegistry{carts: make(map[uint]*sessionCart)}
}

func (reg *CartRegistry) entry(userID uint) *sessionCart {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	sc, ok := reg.carts[userID]
	if !ok {
		sc = &sessionCart{cart: cart.New()}
		reg.carts[userID] = sc
	}
	return sc
}

// With runs fn on the user's cart, creating it on first use.
func (reg *CartRegistry) With(userID uint, fn func(*cart.Cart) error) error {
	sc := reg.entry(userID)
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return fn(sc.cart)
}

// Drop forgets the user's cart, e.g. on logout.
func (reg *CartRegistry) Drop(userID uint) {
	reg.mu.Lock()
	delete(reg.carts, userID)
	reg.mu.Unlock()
}
