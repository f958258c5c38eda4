package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/albinmanuel/student-management-client/internal/repository"
)

// Tab aggregates every store belonging to one browser tab. Logout rebuilds
// the whole aggregate, which is how a full page reload is rendered here:
// no in-memory state survives except the tab identity itself.
type Tab struct {
	ID string

	mu   sync.Mutex
	gw   Gateway
	tabs repository.TabRepository

	session       *SessionStore
	perms         *PermissionCache
	staff         *StaffStore
	students      *StudentStore
	staffStudents *StaffStudentStore
}

func NewTab(ctx context.Context, gw Gateway, tabs repository.TabRepository, tabID string) *Tab {
	t := &Tab{
		ID:   tabID,
		gw:   gw,
		tabs: tabs,
	}
	t.build(ctx)

	return t
}

func (t *Tab) build(ctx context.Context) {
	session := NewSessionStore(ctx, t.gw, t.tabs, t.ID)
	perms := NewPermissionCache(t.gw, session)

	t.session = session
	t.perms = perms
	t.staff = NewStaffStore(t.gw, session, perms)
	t.students = NewStudentStore(t.gw, session)
	t.staffStudents = NewStaffStudentStore(t.gw, session)
}

// Logout clears persisted state, then discards and rebuilds every store.
func (t *Tab) Logout(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	t.build(ctx)

	return nil
}

// Gateway exposes the backend client for passthrough reads (profile,
// dashboard counts) that have no store of their own.
func (t *Tab) Gateway() Gateway {
	return t.gw
}

func (t *Tab) Session() *SessionStore {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.session
}

func (t *Tab) Permissions() *PermissionCache {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.perms
}

func (t *Tab) Staff() *StaffStore {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.staff
}

func (t *Tab) Students() *StudentStore {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.students
}

func (t *Tab) StaffStudents() *StaffStudentStore {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.staffStudents
}

// Registry resolves tab IDs to live aggregates, creating them on first
// sight. Tabs are cheap; eviction is left to process lifetime, matching a
// browser tab's own lifetime.
type Registry struct {
	mu   sync.Mutex
	gw   Gateway
	tabs repository.TabRepository
	open map[string]*Tab
}

func NewRegistry(gw Gateway, tabs repository.TabRepository) *Registry {
	return &Registry{
		gw:   gw,
		tabs: tabs,
		open: make(map[string]*Tab),
	}
}

func (r *Registry) Tab(ctx context.Context, tabID string) *Tab {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.open[tabID]; ok {
		return t
	}

	t := NewTab(ctx, r.gw, r.tabs, tabID)
	r.open[tabID] = t

	return t
}
