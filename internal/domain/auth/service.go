package auth

import (
	"context"
	"sync"
	"time"
)

// PermissionChecker answers whether a role holds a permission.
type PermissionChecker interface {
	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
}

// PermissionCache remembers permission lookups for ttl. Errors are not cached.
type PermissionCache struct {
	source PermissionChecker
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	allowed bool
	expires time.Time
}

func NewPermissionCache(source PermissionChecker, ttl time.Duration) *PermissionCache {
	return &PermissionCache{source: source, ttl: ttl, now: time.Now, entries: map[string]cacheEntry{}}
}

func (c *PermissionCache) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	key := roleID + "|" + permission
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if ok && now.Before(entry.expires) {
		return entry.allowed, nil
	}

	allowed, err := c.source.HasPermission(ctx, roleID, permission)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{allowed: allowed, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return allowed, nil
}
