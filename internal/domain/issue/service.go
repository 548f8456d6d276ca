package issue

import "context"

// IssueService drives remediation of detected issues.
type IssueService interface {
	ListIssues(ctx context.Context, filter IssueFilter) (ListIssueResponse, error)
	GetIssue(ctx context.Context, id string) (IssueResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (IssueResponse, error)
	AddLog(ctx context.Context, req AddLogRequest) (LogResponse, error)
	GenerateReason(ctx context.Context, req GenerateReasonRequest) (GenerateReasonResponse, error)
}
