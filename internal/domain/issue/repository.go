package issue

import (
	"context"
	"time"
)

// IssueRepository defines data access for issues and their remediation history.
type IssueRepository interface {
	// CreateFindings persists findings for a record; detected_at defaults to now()
	CreateFindings(ctx context.Context, attendanceRecordID string, findings []Finding) ([]Issue, error)

	// GetByID loads an issue with its record, employee and store, scoped to the organization
	GetByID(ctx context.Context, id string, organizationID string) (Issue, error)

	// List retrieves issues with filters and pagination, newest first
	List(ctx context.Context, filter IssueFilter, organizationID string) ([]Issue, int64, error)

	// UpdateStatus sets the status and returns the previous one
	UpdateStatus(ctx context.Context, id string, status Status) (Status, error)

	CreateLog(ctx context.Context, log Log) (Log, error)
	ListLogs(ctx context.Context, issueID string) ([]Log, error)

	CreateCorrectionReason(ctx context.Context, reason CorrectionReason) (CorrectionReason, error)

	// CountCorrectionReasonsSince counts generated statements for the organization since t
	CountCorrectionReasonsSince(ctx context.Context, organizationID string, t time.Time) (int, error)

	// ListForPeriod returns every issue whose record date falls in [from, to)
	ListForPeriod(ctx context.Context, organizationID string, storeID *string, from, to time.Time) ([]Issue, error)
}
