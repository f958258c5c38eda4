package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/albinmanuel/student-management-client/internal/entity"
)

// PermissionCache is the client-side source of truth for a staff member's
// student capabilities. It gates UI affordances only; the backend
// authorizes every mutating call independently. Absence of an entry means
// nothing is granted.
type PermissionCache struct {
	mu      sync.Mutex
	session *SessionStore
	gw      Gateway
	entries map[string]entity.PermissionSet
	gen     map[string]uint64
	group   singleflight.Group
}

func NewPermissionCache(gw Gateway, session *SessionStore) *PermissionCache {
	return &PermissionCache{
		session: session,
		gw:      gw,
		entries: make(map[string]entity.PermissionSet),
		gen:     make(map[string]uint64),
	}
}

// Fetch returns the cached set for staffID, hitting the network only on a
// miss. Concurrent misses for the same staffID share a single request and
// its outcome. A failed fetch leaves the entry absent.
func (c *PermissionCache) Fetch(ctx context.Context, staffID string) (entity.PermissionSet, error) {
	c.mu.Lock()
	if set, ok := c.entries[staffID]; ok {
		c.mu.Unlock()
		return set, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(staffID, func() (any, error) {
		// A concurrent caller may have populated the entry while this one
		// waited on the flight group.
		c.mu.Lock()
		if set, ok := c.entries[staffID]; ok {
			c.mu.Unlock()
			return set, nil
		}
		started := c.gen[staffID]
		c.mu.Unlock()

		set, err := c.gw.Permissions(ctx, c.session.Token(), staffID)
		if err != nil {
			return nil, fmt.Errorf("fetch permissions: %w", err)
		}

		// An update or invalidation that landed while this request was on
		// the network wins over its response: an entry that appeared is the
		// current truth, and a bumped generation means the entry was dropped
		// and must not be resurrected.
		c.mu.Lock()
		defer c.mu.Unlock()

		if cur, ok := c.entries[staffID]; ok {
			return cur, nil
		}

		if c.gen[staffID] == started {
			c.entries[staffID] = set
		}

		return set, nil
	})
	if err != nil {
		slog.WarnContext(ctx, "permissions: fetch failed", "staff_id", staffID, "error", err)
		return entity.PermissionSet{}, err
	}

	return v.(entity.PermissionSet), nil
}

// Update writes the complete four-boolean set and atomically replaces the
// cache entry on success. On failure the entry is left as it was.
func (c *PermissionCache) Update(ctx context.Context, staffID string, set entity.PermissionSet) (entity.PermissionSet, error) {
	updated, err := c.gw.UpdatePermissions(ctx, c.session.Token(), staffID, set)
	if err != nil {
		slog.WarnContext(ctx, "permissions: update failed", "staff_id", staffID, "error", err)
		return entity.PermissionSet{}, fmt.Errorf("update permissions: %w", err)
	}

	c.mu.Lock()
	c.entries[staffID] = updated
	c.gen[staffID]++
	c.mu.Unlock()

	// Later fetches must not join a flight that predates this write.
	c.group.Forget(staffID)

	slog.InfoContext(ctx, "permissions: updated", "staff_id", staffID, "granted", updated.GrantedCount())

	return updated, nil
}

// Invalidate drops the entry so the next Fetch hits the network. Must be
// called when the owning staff record is deleted.
func (c *PermissionCache) Invalidate(staffID string) {
	c.mu.Lock()
	delete(c.entries, staffID)
	c.gen[staffID]++
	c.mu.Unlock()

	c.group.Forget(staffID)
}

// Warm seeds the cache from a snapshot embedded on a staff record. The
// snapshot is only a hint: it never overwrites an entry the cache already
// owns.
func (c *PermissionCache) Warm(staffID string, set entity.PermissionSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[staffID]; ok {
		return
	}

	c.entries[staffID] = set
}

// Granted reads the cached set without touching the network. Fail-closed:
// no entry, nothing granted.
func (c *PermissionCache) Granted(staffID string) (entity.PermissionSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.entries[staffID]

	return set, ok
}

// Changed reports whether a candidate set differs from the last-fetched
// baseline. Submitting an unchanged set is a UI no-op; this saves a
// request, it is not a correctness requirement.
func Changed(baseline, candidate entity.PermissionSet) bool {
	return baseline != candidate
}
