package organization

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrEmployeeLimitReached = errors.New("employee limit of the current plan reached")
)
