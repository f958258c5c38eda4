package entity

type SessionState string

const (
	SessionAnonymous     SessionState = "anonymous"
	SessionAuth          SessionState = "authenticating"
	SessionAuthenticated SessionState = "authenticated"
	SessionFailed        SessionState = "authentication_failed"
)

const (
	RoleSuperAdmin = "superadmin"
	RoleStaff      = "staff"
)

// Identity is the authenticated user payload returned by the backend on
// login. It is held in memory only; a tab that loses it keeps its token.
type Identity struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// LandingPath returns the portal entry point for the identity's role.
// Unknown roles have no landing page.
func (i Identity) LandingPath() string {
	switch i.Role {
	case RoleSuperAdmin:
		return "/superadmin/dashboard"
	case RoleStaff:
		return "/staff/dashboard"
	default:
		return ""
	}
}

// TabState is the per-tab persisted session state. It mirrors exactly what
// the console keeps across requests for one browser tab: the bearer token
// and the display name. Nothing else survives a logout.
type TabState struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
