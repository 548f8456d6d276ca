package issue

import "errors"

var (
	ErrIssueNotFound       = errors.New("issue not found")
	ErrIssueAccessDenied   = errors.New("no access to this issue")
	ErrInvalidStatus       = errors.New("invalid issue status")
	ErrReasonQuotaExceeded = errors.New("monthly reason generation limit reached for the current plan")
)
