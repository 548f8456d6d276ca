package report

import (
	"context"
	"fmt"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/organization"
	"github.com/kintai-check/kintai-backend-go/internal/domain/report"
	"github.com/kintai-check/kintai-backend-go/internal/domain/store"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/service/file"
)

type ReportServiceImpl struct {
	issue.IssueRepository
	organization.OrganizationRepository
	store.StoreRepository
	fileService file.FileService
	fontPath    string
	now         func() time.Time
}

// NewReportService builds the report service. fontPath points to a UTF-8 TrueType
// font used for Japanese PDFs; when empty PDFs fall back to English labels.
func NewReportService(issueRepo issue.IssueRepository, orgRepo organization.OrganizationRepository, storeRepo store.StoreRepository, fileService file.FileService, fontPath string) report.ReportService {
	return &ReportServiceImpl{
		IssueRepository:        issueRepo,
		OrganizationRepository: orgRepo,
		StoreRepository:        storeRepo,
		fileService:            fileService,
		fontPath:               fontPath,
		now:                    time.Now,
	}
}

// Generate implements report.ReportService.
func (s *ReportServiceImpl) Generate(ctx context.Context, req report.GenerateReportRequest) (report.File, error) {
	if err := req.Validate(); err != nil {
		return report.File{}, err
	}
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return report.File{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if !user.HasPermission(claims.Role, user.PermissionReportsGenerate) {
		return report.File{}, user.ErrInsufficientPermissions
	}

	storeID := req.StoreID
	if claims.IsStoreScoped() {
		if storeID != nil && *storeID != *claims.StoreID {
			return report.File{}, report.ErrStoreAccessDenied
		}
		storeID = claims.StoreID
	}

	month, _ := report.ParseMonth(req.Month)
	rep, err := s.build(ctx, claims.OrganizationID, storeID, month, req.MaskPersonalInfo)
	if err != nil {
		return report.File{}, err
	}

	var content []byte
	switch req.Format {
	case report.FormatCSV:
		content, err = renderCSV(rep)
	default:
		content, err = renderPDF(rep, s.fontPath)
	}
	if err != nil {
		return report.File{}, err
	}

	return report.File{
		Filename:    filename(month, req.Format),
		ContentType: contentType(req.Format),
		Content:     content,
	}, nil
}

// Archive implements report.ReportService.
func (s *ReportServiceImpl) Archive(ctx context.Context, organizationID string, month time.Time) (bool, error) {
	exists, err := s.fileService.ReportArchived(ctx, organizationID, month, string(report.FormatCSV))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	rep, err := s.build(ctx, organizationID, nil, month, false)
	if err != nil {
		return false, err
	}
	content, err := renderCSV(rep)
	if err != nil {
		return false, err
	}
	if _, err := s.fileService.ArchiveReport(ctx, organizationID, month, string(report.FormatCSV), content); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ReportServiceImpl) build(ctx context.Context, organizationID string, storeID *string, month time.Time, mask bool) (report.MonthlyReport, error) {
	org, err := s.OrganizationRepository.GetByID(ctx, organizationID)
	if err != nil {
		return report.MonthlyReport{}, fmt.Errorf("failed to get organization: %w", err)
	}

	rep := report.MonthlyReport{
		Month:            month,
		OrganizationName: org.Name,
		Masked:           mask,
		CountsByType:     make(map[issue.Type]int),
		CountsByStatus:   make(map[issue.Status]int),
		GeneratedAt:      s.now(),
	}
	if storeID != nil {
		st, err := s.StoreRepository.GetByID(ctx, *storeID, organizationID)
		if err != nil {
			return report.MonthlyReport{}, err
		}
		rep.StoreName = st.Name
	}

	issues, err := s.IssueRepository.ListForPeriod(ctx, organizationID, storeID, month, month.AddDate(0, 1, 0))
	if err != nil {
		return report.MonthlyReport{}, fmt.Errorf("failed to list issues for report: %w", err)
	}

	rep.Rows = make([]report.Row, 0, len(issues))
	for _, is := range issues {
		row := report.Row{
			Type:            is.Type,
			Severity:        is.Severity,
			Status:          is.Status,
			RuleDescription: is.RuleDescription,
		}
		if rec := is.Record; rec != nil {
			row.Date = rec.Date
			row.EmployeeCode = deref(rec.EmployeeCode)
			row.StoreName = deref(rec.StoreName)
			if !mask {
				row.EmployeeName = deref(rec.EmployeeName)
			}
		}
		rep.Rows = append(rep.Rows, row)
		rep.CountsByType[is.Type]++
		rep.CountsByStatus[is.Status]++
	}
	return rep, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func filename(month time.Time, format report.Format) string {
	return fmt.Sprintf("anomaly-report-%s.%s", month.Format("2006-01"), format)
}

func contentType(format report.Format) string {
	if format == report.FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/pdf"
}
