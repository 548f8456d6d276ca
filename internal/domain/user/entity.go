package user

import "time"

type Role string

const (
	RoleAdmin        Role = "admin"         // Organization administrator - full access
	RoleStoreManager Role = "store_manager" // Handles issues for one store
	RoleViewer       Role = "viewer"        // Read-only access
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStoreManager || r == RoleViewer
}

type User struct {
	ID             string
	OrganizationID string
	StoreID        *string
	Email          string
	PasswordHash   string
	Name           string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin checks if user administers the organization
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanHandleIssues checks if user may change issue state
func (u *User) CanHandleIssues() bool {
	return u.Role == RoleAdmin || u.Role == RoleStoreManager
}
