package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/albinmanuel/student-management-client/internal/entity"
	"github.com/albinmanuel/student-management-client/internal/repository"
)

// SessionStore drives the authentication state machine for one tab:
//
//	Anonymous -> Authenticating -> Authenticated | AuthenticationFailed
//	Authenticated -> Anonymous (logout)
//
// The persisted token is written at exactly one point, on a successful
// login, and cleared at exactly one point, on logout. A failed login
// leaves whatever was persisted before untouched.
type SessionStore struct {
	mu sync.Mutex

	gw    Gateway
	tabs  repository.TabRepository
	tabID string

	state    entity.SessionState
	token    string
	username string
	identity *entity.Identity
	err      error
}

// NewSessionStore re-reads persisted tab state on construction, so a tab
// that still holds a token resumes Authenticated. Its identity is not
// persisted and stays absent until the next login.
func NewSessionStore(ctx context.Context, gw Gateway, tabs repository.TabRepository, tabID string) *SessionStore {
	s := &SessionStore{
		gw:    gw,
		tabs:  tabs,
		tabID: tabID,
		state: entity.SessionAnonymous,
	}

	persisted, err := tabs.Load(ctx, tabID)
	if err != nil {
		if !errors.Is(err, entity.ErrTabNotFound) {
			slog.WarnContext(ctx, "session: failed to load persisted tab state", "tab_id", tabID, "error", err)
		}

		return s
	}

	if persisted.Token != "" {
		s.token = persisted.Token
		s.username = persisted.Username
		s.state = entity.SessionAuthenticated
	}

	return s
}

// Login validates the credentials locally, then exchanges them for a token
// and identity. The empty-field check happens before any network call.
func (s *SessionStore) Login(ctx context.Context, email, password string) (entity.Identity, error) {
	if email == "" || password == "" {
		return entity.Identity{}, entity.ErrMissingCredentials
	}

	s.mu.Lock()
	s.state = entity.SessionAuth
	s.err = nil
	s.mu.Unlock()

	resp, err := s.gw.Login(ctx, email, password)
	if err == nil && (resp.Token == "" || resp.CurrentUser.Name == "") {
		err = fmt.Errorf("%w: response missing token or identity", entity.ErrLoginFailed)
	}

	if err != nil {
		slog.WarnContext(ctx, "session: login failed", "error", err)

		s.mu.Lock()
		s.state = entity.SessionFailed
		s.err = err
		s.mu.Unlock()

		return entity.Identity{}, err
	}

	persisted := entity.TabState{Token: resp.Token, Username: resp.CurrentUser.Name}
	if err := s.tabs.Save(ctx, s.tabID, persisted); err != nil {
		s.mu.Lock()
		s.state = entity.SessionFailed
		s.err = err
		s.mu.Unlock()

		return entity.Identity{}, fmt.Errorf("persist session: %w", err)
	}

	identity := resp.CurrentUser

	s.mu.Lock()
	s.state = entity.SessionAuthenticated
	s.token = resp.Token
	s.username = resp.CurrentUser.Name
	s.identity = &identity
	s.mu.Unlock()

	slog.InfoContext(ctx, "session: login succeeded", "username", identity.Name, "role", identity.Role)

	return identity, nil
}

// Logout clears the persisted tab state and returns the session to
// Anonymous. Resetting the rest of the tab's in-memory stores is the
// Tab aggregate's job; callers go through Tab.Logout.
func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.tabs.Delete(ctx, s.tabID); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}

	s.mu.Lock()
	s.state = entity.SessionAnonymous
	s.token = ""
	s.username = ""
	s.identity = nil
	s.err = nil
	s.mu.Unlock()

	slog.InfoContext(ctx, "session: logged out")

	return nil
}

func (s *SessionStore) State() entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Token returns the bearer credential, empty when anonymous.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token
}

// Authenticated is the route-guard decision: token presence only, no
// validity check. The backend rejects stale tokens per call.
func (s *SessionStore) Authenticated() bool {
	return s.Token() != ""
}

func (s *SessionStore) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.username
}

// Identity reports the in-memory identity. It is absent after a console
// restart even when a persisted token survives.
func (s *SessionStore) Identity() (entity.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return entity.Identity{}, false
	}

	return *s.identity, true
}

func (s *SessionStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}
