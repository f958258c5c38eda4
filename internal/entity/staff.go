package entity

// Staff is a staff record as the backend returns it. Permissions is an
// embedded snapshot the backend may or may not include; it is only a
// cache-warming hint, the permission cache stays canonical.
type Staff struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phoneNumber"`
	Permissions *PermissionSet `json:"permissions,omitempty"`
}

// Profile is the current user's own record, shown on the profile pages of
// both portals.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	PhoneNo string `json:"phoneno"`
}

// Counts are the dashboard totals for the superadmin landing page.
type Counts struct {
	StaffCount   int `json:"staffCount"`
	StudentCount int `json:"studentCount"`
}
