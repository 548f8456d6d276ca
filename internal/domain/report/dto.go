package report

import (
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/validator"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

type GenerateReportRequest struct {
	StoreID          *string `json:"store_id"`
	Month            string  `json:"month"` // YYYY-MM
	Format           Format  `json:"format"`
	MaskPersonalInfo bool    `json:"mask_personal_info"`
}

func (r *GenerateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, err := ParseMonth(r.Month); err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: ErrInvalidMonth.Error()})
	}
	if r.Format == "" {
		r.Format = FormatPDF
	}
	if r.Format != FormatCSV && r.Format != FormatPDF {
		errs = append(errs, validator.ValidationError{Field: "format", Message: ErrInvalidFormat.Error()})
	}
	if r.StoreID != nil && !validator.IsValidUUID(*r.StoreID) {
		errs = append(errs, validator.ValidationError{Field: "store_id", Message: "store_id must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseMonth parses YYYY-MM into the first instant of that month in UTC.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// Row is one issue line of a monthly report.
type Row struct {
	Date            time.Time
	EmployeeCode    string
	EmployeeName    string
	StoreName       string
	Type            issue.Type
	Severity        issue.Severity
	Status          issue.Status
	RuleDescription string
}

// MonthlyReport is the renderer-independent content of a monthly anomaly report.
type MonthlyReport struct {
	Month            time.Time
	OrganizationName string
	StoreName        string
	Masked           bool
	Rows             []Row
	CountsByType     map[issue.Type]int
	CountsByStatus   map[issue.Status]int
	GeneratedAt      time.Time
}

// File is a rendered report ready to be sent or stored.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}
