package attendance

import (
	"mime/multipart"

	"github.com/kintai-check/kintai-backend-go/internal/pkg/validator"
)

// ========================================
// IMPORT DTOs
// ========================================

type PreviewRequest struct {
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *PreviewRequest) Validate() error {
	if r.File == nil || r.FileHeader == nil {
		return validator.ValidationErrors{{Field: "file", Message: ErrFileRequired.Error()}}
	}
	return nil
}

type PreviewResponse struct {
	Columns  []string            `json:"columns"`
	RowCount int                 `json:"row_count"`
	Preview  []map[string]string `json:"preview"`
	Encoding string              `json:"encoding"`
}

type ImportRequest struct {
	StoreID    string                `json:"store_id"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StoreID) {
		errs = append(errs, validator.ValidationError{
			Field:   "store_id",
			Message: "store_id is required",
		})
	} else if !validator.IsValidUUID(r.StoreID) {
		errs = append(errs, validator.ValidationError{
			Field:   "store_id",
			Message: "store_id must be a valid UUID",
		})
	}

	if r.File == nil || r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: ErrFileRequired.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ImportResult struct {
	BatchID     string `json:"batch_id"`
	Message     string `json:"message"`
	RecordCount int    `json:"record_count"`
	SkipCount   int    `json:"skip_count"`
	IssueCount  int    `json:"issue_count"`
}

// EventImportCompleted is published to the organization's event stream after an import commits.
const EventImportCompleted = "import.completed"

type ImportCompletedEvent struct {
	ImportResult
	StoreID string `json:"store_id"`
}

// ========================================
// RECORD LIST DTOs
// ========================================

type RecordFilter struct {
	StoreID    *string `json:"store_id,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	DateFrom   *string `json:"date_from,omitempty"` // YYYY-MM-DD
	DateTo     *string `json:"date_to,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.StoreID != nil && !validator.IsValidUUID(*f.StoreID) {
		errs = append(errs, validator.ValidationError{
			Field:   "store_id",
			Message: "store_id must be a valid UUID",
		})
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	var from, to validator.Date
	var err error
	if f.DateFrom != nil {
		if from, err = validator.ParseDate(*f.DateFrom); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be in YYYY-MM-DD format",
			})
		}
	}
	if f.DateTo != nil {
		if to, err = validator.ParseDate(*f.DateTo); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be in YYYY-MM-DD format",
			})
		}
	}
	if f.DateFrom != nil && f.DateTo != nil && len(errs) == 0 && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_to",
			Message: "date_to must not be before date_from",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code,omitempty"`
	EmployeeName string  `json:"employee_name,omitempty"`
	StoreID      *string `json:"store_id,omitempty"`
	StoreName    *string `json:"store_name,omitempty"`
	Date         string  `json:"date"`
	ClockIn      *string `json:"clock_in"`
	ClockOut     *string `json:"clock_out"`
	BreakMinutes *int    `json:"break_minutes"`
	WorkType     *string `json:"work_type"`
	ImportedAt   string  `json:"imported_at"`
}

type ListRecordResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Showing    string           `json:"showing"`
	Records    []RecordResponse `json:"records"`
}

// ToResponse maps a record into its API shape.
func ToResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		StoreID:      r.StoreID,
		StoreName:    r.StoreName,
		Date:         r.Date.Format("2006-01-02"),
		BreakMinutes: r.BreakMinutes,
		WorkType:     r.WorkType,
		ImportedAt:   r.ImportedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if r.EmployeeCode != nil {
		resp.EmployeeCode = *r.EmployeeCode
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if r.ClockIn != nil {
		s := r.ClockIn.String()
		resp.ClockIn = &s
	}
	if r.ClockOut != nil {
		s := r.ClockOut.String()
		resp.ClockOut = &s
	}
	return resp
}
