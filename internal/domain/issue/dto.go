package issue

import (
	"time"
	"unicode/utf8"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/validator"
)

// ========================================
// ISSUE LIST DTOs
// ========================================

type IssueFilter struct {
	StoreID    *string `json:"store_id,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Type       *string `json:"type,omitempty"`
	Severity   *string `json:"severity,omitempty"`
	Status     *string `json:"status,omitempty"`
	DateFrom   *string `json:"date_from,omitempty"` // YYYY-MM-DD
	DateTo     *string `json:"date_to,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (f *IssueFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize < 0 {
		errs = append(errs, validator.ValidationError{Field: "page_size", Message: "page_size must be a positive number"})
	}
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		errs = append(errs, validator.ValidationError{Field: "page_size", Message: "page_size must not exceed 100"})
	}

	if f.StoreID != nil && !validator.IsValidUUID(*f.StoreID) {
		errs = append(errs, validator.ValidationError{Field: "store_id", Message: "store_id must be a valid UUID"})
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if f.Type != nil && !Type(*f.Type).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: missing_clock_in, missing_clock_out, insufficient_break, overtime, night_work, inconsistency",
		})
	}
	if f.Severity != nil && !Severity(*f.Severity).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "severity", Message: "severity must be one of: high, medium, low"})
	}
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: pending, in_progress, completed"})
	}
	if f.DateFrom != nil {
		if _, ok := validator.IsValidDate(*f.DateFrom); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_from", Message: "date_from must be in YYYY-MM-DD format"})
		}
	}
	if f.DateTo != nil {
		if _, ok := validator.IsValidDate(*f.DateTo); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_to", Message: "date_to must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LogResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	Memo      *string   `json:"memo"`
	CreatedAt time.Time `json:"created_at"`
}

type IssueResponse struct {
	ID                 string                     `json:"id"`
	AttendanceRecordID string                     `json:"attendance_record_id"`
	EmployeeID         string                     `json:"employee_id"`
	EmployeeName       string                     `json:"employee_name"`
	StoreID            string                     `json:"store_id"`
	StoreName          string                     `json:"store_name"`
	Date               string                     `json:"date"`
	Type               Type                       `json:"type"`
	Severity           Severity                   `json:"severity"`
	Status             Status                     `json:"status"`
	RuleDescription    string                     `json:"rule_description"`
	DetectedAt         time.Time                  `json:"detected_at"`
	AttendanceRecord   *attendance.RecordResponse `json:"attendance_record,omitempty"`
	Logs               []LogResponse              `json:"logs"`
}

type ListIssueResponse struct {
	Items    []IssueResponse `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// ========================================
// REMEDIATION DTOs
// ========================================

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status Status `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if !r.Status.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: pending, in_progress, completed"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddLogRequest struct {
	IssueID string  `json:"-"`
	Action  string  `json:"action"`
	Memo    *string `json:"memo"`
}

func (r *AddLogRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.IssueID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if validator.IsEmpty(r.Action) {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "action is required"})
	} else if utf8.RuneCountInString(r.Action) > 100 {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "action must not exceed 100 characters"})
	}
	if r.Memo != nil && utf8.RuneCountInString(*r.Memo) > 2000 {
		errs = append(errs, validator.ValidationError{Field: "memo", Message: "memo must not exceed 2000 characters"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerateReasonRequest struct {
	IssueID       string               `json:"-"`
	TemplateType  setting.TemplateType `json:"template_type"`
	CauseCategory CauseCategory        `json:"cause_category"`
	CauseDetail   *string              `json:"cause_detail"`
	ActionTaken   ActionTaken          `json:"action_taken"`
	Prevention    Prevention           `json:"prevention"`
}

func (r *GenerateReasonRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.IssueID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if !r.TemplateType.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "template_type", Message: "template_type must be one of: internal, employee, audit"})
	}
	if !r.CauseCategory.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "cause_category",
			Message: "cause_category must be one of: forgot_clock, device_issue, work_reason, application_missing, other",
		})
	}
	if !r.ActionTaken.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "action_taken",
			Message: "action_taken must be one of: correction_request, employee_confirmation, overtime_application, warning, announcement",
		})
	}
	if !r.Prevention.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "prevention",
			Message: "prevention must be one of: operation_notice, device_placement, checklist, double_check",
		})
	}
	if r.CauseDetail != nil && utf8.RuneCountInString(*r.CauseDetail) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "cause_detail", Message: "cause_detail must not exceed 1000 characters"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerateReasonResponse struct {
	ReasonID      string `json:"reason_id"`
	GeneratedText string `json:"generated_text"`
}
