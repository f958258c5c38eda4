package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/albinmanuel/student-management-client/internal/entity"
	"github.com/albinmanuel/student-management-client/internal/service"
)

type ctxKeyTab struct{}

func tabToContext(ctx context.Context, tab *service.Tab) context.Context {
	return context.WithValue(ctx, ctxKeyTab{}, tab)
}

func tabFromContext(ctx context.Context) (*service.Tab, bool) {
	tab, ok := ctx.Value(ctxKeyTab{}).(*service.Tab)

	return tab, ok
}

type ResponseError struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func sendErr(_ context.Context, w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(ResponseError{Message: msg}); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, data any) error {
	return json.NewEncoder(w).Encode(data)
}

func sendJSON(_ context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// mapError translates store and gateway failures into a response status
// and a banner message. Backend messages travel verbatim when present.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrMissingCredentials):
		return http.StatusBadRequest, entity.ErrMsgFillFields
	case errors.Is(err, entity.ErrMissingRequiredField),
		errors.Is(err, entity.ErrInvalidEmail),
		errors.Is(err, entity.ErrInvalidPhone),
		errors.Is(err, entity.ErrInvalidAge):
		return http.StatusBadRequest, displayMessage(err)
	case errors.Is(err, entity.ErrLoginFailed), errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized, entity.ErrMsgLoginFailed
	case errors.Is(err, entity.ErrPermissionDenied):
		return http.StatusForbidden, displayMessage(err)
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound, displayMessage(err)
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict, displayMessage(err)
	default:
		return http.StatusBadGateway, displayMessage(err)
	}
}

// displayMessage recovers the user-relevant part of a wrapped error. A
// backend message travels intact inside the error chain; validation
// errors fall back to stripping the wrap prefixes ("update staff:
// invalid email: ...").
func displayMessage(err error) string {
	var backendErr *entity.BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Message
	}

	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx != -1 && idx+2 < len(msg) {
		return msg[idx+2:]
	}

	return msg
}
