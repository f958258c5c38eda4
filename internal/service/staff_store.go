package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/albinmanuel/student-management-client/internal/clients/school"
	"github.com/albinmanuel/student-management-client/internal/entity"
)

// StaffStore mirrors the backend's staff collection for the superadmin
// portal. Lists replace the collection wholesale; creates append; updates
// replace by ID; deletes remove by ID and invalidate the permission cache
// entry that belonged to the record.
type StaffStore struct {
	mu sync.Mutex

	gw      Gateway
	session *SessionStore
	perms   *PermissionCache

	staffs  []entity.Staff
	loading bool
	err     error
}

func NewStaffStore(gw Gateway, session *SessionStore, perms *PermissionCache) *StaffStore {
	return &StaffStore{
		gw:      gw,
		session: session,
		perms:   perms,
	}
}

func (s *StaffStore) Load(ctx context.Context) error {
	s.begin()

	staffs, err := s.gw.Staffs(ctx, s.session.Token())
	if err != nil {
		s.fail(err)
		return fmt.Errorf("list staffs: %w", err)
	}

	s.mu.Lock()
	s.staffs = staffs
	s.loading = false
	s.mu.Unlock()

	// Embedded snapshots warm the cache but never overwrite it.
	for _, staff := range staffs {
		if staff.Permissions != nil {
			s.perms.Warm(staff.ID, *staff.Permissions)
		}
	}

	return nil
}

func (s *StaffStore) Create(ctx context.Context, req school.StaffRequest) (entity.Staff, error) {
	if err := ValidateStaff(req, true); err != nil {
		return entity.Staff{}, err
	}

	s.begin()

	staff, err := s.gw.CreateStaff(ctx, s.session.Token(), req)
	if err != nil {
		s.fail(err)
		return entity.Staff{}, fmt.Errorf("create staff: %w", err)
	}

	s.mu.Lock()
	s.staffs = append(s.staffs, staff)
	s.loading = false
	s.mu.Unlock()

	slog.InfoContext(ctx, "staff store: created", "staff_id", staff.ID)

	return staff, nil
}

func (s *StaffStore) Update(ctx context.Context, staffID string, req school.StaffRequest) (entity.Staff, error) {
	if err := ValidateStaff(req, false); err != nil {
		return entity.Staff{}, err
	}

	s.begin()

	staff, err := s.gw.UpdateStaff(ctx, s.session.Token(), staffID, req)
	if err != nil {
		s.fail(err)
		return entity.Staff{}, fmt.Errorf("update staff: %w", err)
	}

	s.mu.Lock()
	for i := range s.staffs {
		if s.staffs[i].ID == staff.ID {
			s.staffs[i] = staff
			break
		}
	}
	s.loading = false
	s.mu.Unlock()

	return staff, nil
}

func (s *StaffStore) Delete(ctx context.Context, staffID string) (string, error) {
	s.begin()

	message, err := s.gw.DeleteStaff(ctx, s.session.Token(), staffID)
	if err != nil {
		s.fail(err)
		return "", fmt.Errorf("delete staff: %w", err)
	}

	s.mu.Lock()
	kept := s.staffs[:0]
	for _, staff := range s.staffs {
		if staff.ID != staffID {
			kept = append(kept, staff)
		}
	}
	s.staffs = kept
	s.loading = false
	s.mu.Unlock()

	s.perms.Invalidate(staffID)

	slog.InfoContext(ctx, "staff store: deleted", "staff_id", staffID)

	return message, nil
}

func (s *StaffStore) Staffs() []entity.Staff {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Staff, len(s.staffs))
	copy(out, s.staffs)

	return out
}

func (s *StaffStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

func (s *StaffStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// ClearError is dismissal of the error banner; the UI calls it either
// explicitly or when the banner's timer fires.
func (s *StaffStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = nil
}

func (s *StaffStore) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.err = nil
}

func (s *StaffStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	s.err = err
}
