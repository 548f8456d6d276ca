package employee

import "time"

type Employee struct {
	ID             string
	OrganizationID string
	StoreID        *string
	EmployeeCode   string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
