package attendance

import "context"

// AttendanceService covers CSV import with detection and record browsing.
type AttendanceService interface {
	// Preview parses an upload without persisting anything
	Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error)

	// Import stores every new row, runs detection on it and persists the findings
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)

	// ListRecords lists imported records visible to the caller
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordResponse, error)
}
