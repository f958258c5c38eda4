package entity

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrLoginFailed          = errors.New("login failed")
	ErrMissingCredentials   = errors.New("email and password are required")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrInvalidPhone         = errors.New("invalid phone number")
	ErrInvalidAge           = errors.New("invalid age")
	ErrTabNotFound          = errors.New("tab session not found")
)

const (
	ErrMsgInternal     = "Internal server error"
	ErrMsgBadRequest   = "Invalid request"
	ErrMsgUnauthorized = "Authentication required"
	ErrMsgLoginFailed  = "Invalid email or password"
	ErrMsgFillFields   = "Please fill in all fields"
)

// ViewDeniedMarker is the backend message substring that means the staff
// member's view permission was revoked, as opposed to a generic failure.
const ViewDeniedMarker = "Permission denied to view students"

// BackendError pairs a sentinel with the backend's own message, so the
// message survives wrapping intact and can be shown to the user verbatim.
type BackendError struct {
	Err     error
	Message string
}

func (e *BackendError) Error() string {
	return e.Err.Error() + ": " + e.Message
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
