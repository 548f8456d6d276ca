package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// List methods take organizationID to keep tenants isolated.
type AttendanceRepository interface {
	// Create inserts a record and returns it with ID and ImportedAt populated.
	// Returns ErrRecordAlreadyExists on a duplicate (employee, date).
	Create(ctx context.Context, record Record) (Record, error)

	// ExistsForEmployeeDate reports whether a record exists for the employee on date
	ExistsForEmployeeDate(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// GetByID retrieves a record with organization isolation
	GetByID(ctx context.Context, id string, organizationID string) (Record, error)

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter RecordFilter, organizationID string) ([]Record, int64, error)
}
