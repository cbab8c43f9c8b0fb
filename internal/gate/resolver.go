package gate

import (
	"context"
	"sync"
	"time"
)

// RoleResolver resolves a user to its role.
type RoleResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Role, error)
}

// CachedResolver wraps a RoleResolver with TTL-based caching.
// This avoids hitting the database on every authorization check.
type CachedResolver[U comparable] struct {
	inner RoleResolver[U]
	cache map[U]cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry struct {
	role      Role
	expiresAt time.Time
}

// NewCachedResolver wraps a resolver with caching.
// ttl is how long roles are cached before re-fetching.
func NewCachedResolver[U comparable](inner RoleResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{
		inner: inner,
		cache: make(map[U]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Resolve returns the role for user, using the cache when fresh. Errors are
// not cached.
func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) (Role, error) {
	r.mu.RLock()
	entry, ok := r.cache[user]
	r.mu.RUnlock()

	if ok && r.now().Before(entry.expiresAt) {
		return entry.role, nil
	}

	role, err := r.inner.Resolve(ctx, user)
	if err != nil {
		return RoleClient, err
	}

	r.mu.Lock()
	r.cache[user] = cacheEntry{role: role, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return role, nil
}

// Invalidate removes a user from the cache.
// Call this when a user's role changes.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.mu.Lock()
	delete(r.cache, user)
	r.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (r *CachedResolver[U]) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[U]cacheEntry)
	r.mu.Unlock()
}

// StaticResolver is an in-memory resolver, mostly for tests. Unknown users
// resolve to RoleClient.
type StaticResolver[U comparable] struct {
	mu    sync.RWMutex
	roles map[U]Role
}

func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{roles: make(map[U]Role)}
}

// Set assigns a role to a user.
func (r *StaticResolver[U]) Set(user U, role Role) {
	r.mu.Lock()
	r.roles[user] = role
	r.mu.Unlock()
}

func (r *StaticResolver[U]) Resolve(_ context.Context, user U) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[user], nil
}
