package employee

import "context"

type EmployeeRepository interface {
	// GetByCode returns ErrEmployeeNotFound when the code is unknown in the organization
	GetByCode(ctx context.Context, organizationID string, employeeCode string) (Employee, error)

	Create(ctx context.Context, e Employee) (Employee, error)

	CountByOrganization(ctx context.Context, organizationID string) (int, error)
}
