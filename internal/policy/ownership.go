package policy

import (
	"context"

	"github.com/diewo77/go-shop/internal/gate"
)

// Ownable is implemented by resources that belong to a client.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy allows an action when the user owns the resource.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can allows list actions (nil resource) and denies resources that are not
// Ownable.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// CapabilityBypassPolicy lets users holding a capability through, and defers
// to the inner policy otherwise.
type CapabilityBypassPolicy struct {
	inner gate.Policy[uint]
	has   func(ctx context.Context, userID uint) bool
}

func NewCapabilityBypassPolicy(inner gate.Policy[uint], has func(ctx context.Context, userID uint) bool) *CapabilityBypassPolicy {
	return &CapabilityBypassPolicy{inner: inner, has: has}
}

func (p *CapabilityBypassPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if p.has(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}
