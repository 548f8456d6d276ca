package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrOrganizationIDRequired  = errors.New("organization ID is required")
)
