package issue

import (
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
)

type Type string

const (
	TypeMissingClockIn    Type = "missing_clock_in"
	TypeMissingClockOut   Type = "missing_clock_out"
	TypeInsufficientBreak Type = "insufficient_break"
	TypeOvertime          Type = "overtime"
	TypeNightWork         Type = "night_work"
	TypeInconsistency     Type = "inconsistency"
)

// Types lists every finding type in rule evaluation order.
var Types = []Type{
	TypeMissingClockIn,
	TypeMissingClockOut,
	TypeInsufficientBreak,
	TypeOvertime,
	TypeNightWork,
	TypeInconsistency,
}

func (t Type) IsValid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func (s Severity) IsValid() bool {
	return s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Finding is one rule violation produced by the detector for a single record.
type Finding struct {
	Type            Type     `json:"type"`
	Severity        Severity `json:"severity"`
	RuleDescription string   `json:"rule_description"`
}

// Issue is a persisted finding together with its remediation state.
type Issue struct {
	ID                 string
	AttendanceRecordID string
	Finding
	Status     Status
	DetectedAt time.Time
	UpdatedAt  time.Time

	// DTO / Join
	Record         *attendance.Record
	OrganizationID string
	Logs           []Log
}

// Log is an entry in an issue's remediation history.
type Log struct {
	ID        string
	IssueID   string
	UserID    string
	UserName  *string
	Action    string
	Memo      *string
	CreatedAt time.Time
}

type CauseCategory string

const (
	CauseForgotClock        CauseCategory = "forgot_clock"
	CauseDeviceIssue        CauseCategory = "device_issue"
	CauseWorkReason         CauseCategory = "work_reason"
	CauseApplicationMissing CauseCategory = "application_missing"
	CauseOther              CauseCategory = "other"
)

type ActionTaken string

const (
	ActionCorrectionRequest    ActionTaken = "correction_request"
	ActionEmployeeConfirmation ActionTaken = "employee_confirmation"
	ActionOvertimeApplication  ActionTaken = "overtime_application"
	ActionWarning              ActionTaken = "warning"
	ActionAnnouncement         ActionTaken = "announcement"
)

type Prevention string

const (
	PreventionOperationNotice Prevention = "operation_notice"
	PreventionDevicePlacement Prevention = "device_placement"
	PreventionChecklist       Prevention = "checklist"
	PreventionDoubleCheck     Prevention = "double_check"
)

// CorrectionReason is a generated correction statement stored against an issue.
type CorrectionReason struct {
	ID            string
	IssueID       string
	TemplateType  setting.TemplateType
	CauseCategory CauseCategory
	CauseDetail   *string
	ActionTaken   ActionTaken
	Prevention    Prevention
	GeneratedText string
	CreatedBy     string
	CreatedAt     time.Time
}

func (c CauseCategory) IsValid() bool {
	_, ok := CauseLabels[c]
	return ok
}

func (a ActionTaken) IsValid() bool {
	_, ok := ActionLabels[a]
	return ok
}

func (p Prevention) IsValid() bool {
	_, ok := PreventionLabels[p]
	return ok
}
