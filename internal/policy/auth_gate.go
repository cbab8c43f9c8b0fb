// Package policy wires the gate primitives to the shop: roles are read from the
// users table, orders are guarded by ownership, and routes by capability.
package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-shop/internal/auth"
	"github.com/diewo77/go-shop/internal/gate"
	"github.com/diewo77/go-shop/internal/httpx"
	"github.com/diewo77/go-shop/internal/i18n"
	"gorm.io/gorm"
)

// AuthGate is the central authorization point: a Gate of per-resource policies
// and a cached role lookup.
type AuthGate struct {
	Gate  *gate.Gate[uint]
	Roles *gate.CachedResolver[uint]
}

// NewAuthGate builds a gate whose roles come from db, cached for cacheTTL.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	return NewAuthGateWithResolver(NewDBRoleResolver(db), cacheTTL)
}

func NewAuthGateWithResolver(resolver gate.RoleResolver[uint], cacheTTL time.Duration) *AuthGate {
	return &AuthGate{
		Gate:  gate.NewGate[uint](),
		Roles: gate.NewCachedResolver[uint](resolver, cacheTTL),
	}
}

func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[uint]) {
	ag.Gate.Register(resourceType, p)
}

// Authorize checks the request's user. Returns gate.ErrUnauthorized when
// there is no user or the policy denies.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

// RoleOf returns the role of the request's user. Anonymous requests and lookup
// failures resolve to the client role, which has no capability.
func (ag *AuthGate) RoleOf(ctx context.Context) gate.Role {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.RoleClient
	}
	role, err := ag.Roles.Resolve(ctx, userID)
	if err != nil {
		return gate.RoleClient
	}
	return role
}

// HasCapability reports whether userID's role carries c.
func (ag *AuthGate) HasCapability(ctx context.Context, userID uint, c gate.Capability) bool {
	role, err := ag.Roles.Resolve(ctx, userID)
	return err == nil && role.Can(c)
}

// InvalidateUser drops the cached role, e.g. after a role change.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.Roles.Invalidate(userID)
}

// RequireCapability returns middleware answering 401 without a session and
// 403 when the user's role lacks c.
func (ag *AuthGate) RequireCapability(c gate.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := i18n.LangFrom(r.Context())
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", i18n.T(lang, "unauthorized"), nil)
				return
			}
			if !ag.HasCapability(r.Context(), userID, c) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", i18n.T(lang, "forbidden"),
					map[string]string{"capability": c.String()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
