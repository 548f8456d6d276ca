package report

import (
	"context"
	"time"
)

type ReportService interface {
	// Generate renders the monthly anomaly report for the caller's organization
	Generate(ctx context.Context, req GenerateReportRequest) (File, error)

	// Archive stores the CSV report of month for organizationID unless it already exists.
	// It reports whether a new file was written.
	Archive(ctx context.Context, organizationID string, month time.Time) (bool, error)
}
