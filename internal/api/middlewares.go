package api

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gofrs/uuid/v5"

	"github.com/albinmanuel/student-management-client/internal/entity"
	"github.com/albinmanuel/student-management-client/internal/service"
	"github.com/albinmanuel/student-management-client/pkg/config"
	"github.com/albinmanuel/student-management-client/pkg/logger"
)

type Middleware struct {
	registry       *service.Registry
	secret         []byte
	allowedOrigins map[string]struct{}
}

func NewMiddleware(registry *service.Registry, cfg config.Config) *Middleware {
	allowed := make(map[string]struct{}, len(cfg.CORSAllowedOrigins))
	for _, origin := range cfg.CORSAllowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &Middleware{
		registry:       registry,
		secret:         []byte(cfg.TabCookieSecret),
		allowedOrigins: allowed,
	}
}

// Cors answers credentialed cross-origin requests only for origins on
// the configured allowlist. Same-origin requests carry no Origin header
// and pass through untouched.
func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if _, ok := m.allowedOrigins[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Origin, Accept, User-Agent, Cache-Control")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.SetRequestID(r.Context(), uuid.Must(uuid.NewV4()).String())
		ctx = logger.SetURL(ctx, r.URL.String())
		ctx = logger.SetMethod(ctx, r.Method)

		slog.InfoContext(ctx, "incoming request")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(r.Context(), "panic", "error", err, "stack", string(debug.Stack()))
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Tab resolves the caller's tab aggregate from the signed tab cookie,
// minting a fresh tab for first-time or tampered cookies.
func (m *Middleware) Tab(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var tabID string

		if cookie, err := r.Cookie(tabCookieName); err == nil {
			if id, err := parseTabCookie(m.secret, cookie.Value); err == nil {
				tabID = id
			} else {
				slog.WarnContext(ctx, "tab: rejecting tab cookie", "error", err)
			}
		}

		if tabID == "" {
			tabID = mintTabID()

			signed, err := signTabCookie(m.secret, tabID)
			if err != nil {
				slog.ErrorContext(ctx, "tab: failed to sign tab cookie", "error", err)
				sendErr(ctx, w, http.StatusInternalServerError, entity.ErrMsgInternal)

				return
			}

			setTabCookie(w, signed)
		}

		ctx = logger.SetTabID(ctx, tabID)
		ctx = tabToContext(ctx, m.registry.Tab(ctx, tabID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Guard admits the protected portal subtrees iff the tab session holds a
// token. Token validity is the backend's problem, not the guard's.
func (m *Middleware) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tab, ok := tabFromContext(ctx)
		if !ok || !tab.Session().Authenticated() {
			slog.WarnContext(ctx, "guard: no session token, redirecting to login")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = writeJSON(w, ResponseError{Message: entity.ErrMsgUnauthorized, Redirect: "/"})

			return
		}

		next.ServeHTTP(w, r)
	})
}
