package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/organization"
	"github.com/kintai-check/kintai-backend-go/internal/domain/store"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/csvimport"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/ids"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/metrics"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/sse"
	"github.com/kintai-check/kintai-backend-go/internal/service/detection"
	"github.com/kintai-check/kintai-backend-go/internal/service/file"
)

const previewRows = 10

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	organization.OrganizationRepository
	store.StoreRepository
	issue.IssueRepository
	resolver    *detection.Resolver
	detector    *detection.Detector
	fileService file.FileService
	metrics     *metrics.Metrics
	events      *sse.Hub
	limits      csvimport.Limits
}

// Deps groups the collaborators of the attendance service.
type Deps struct {
	Tx           database.Transactor
	Attendance   attendance.AttendanceRepository
	Employees    employee.EmployeeRepository
	Orgs         organization.OrganizationRepository
	Stores       store.StoreRepository
	Issues       issue.IssueRepository
	Resolver     *detection.Resolver
	Detector     *detection.Detector
	FileService  file.FileService
	Metrics      *metrics.Metrics
	Events       *sse.Hub
	ImportLimits csvimport.Limits
}

func NewAttendanceService(d Deps) attendance.AttendanceService {
	if d.Detector == nil {
		d.Detector = detection.NewDetector(detection.LocaleJA)
	}
	if d.ImportLimits.MaxBytes == 0 || d.ImportLimits.MaxRows == 0 {
		d.ImportLimits = csvimport.DefaultLimits
	}
	return &AttendanceServiceImpl{
		tx:                     d.Tx,
		AttendanceRepository:   d.Attendance,
		EmployeeRepository:     d.Employees,
		OrganizationRepository: d.Orgs,
		StoreRepository:        d.Stores,
		IssueRepository:        d.Issues,
		resolver:               d.Resolver,
		detector:               d.Detector,
		fileService:            d.FileService,
		metrics:                d.Metrics,
		events:                 d.Events,
		limits:                 d.ImportLimits,
	}
}

func (a *AttendanceServiceImpl) readUpload(r io.Reader) ([]byte, *csvimport.Table, error) {
	raw, err := io.ReadAll(io.LimitReader(r, a.limits.MaxBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}
	table, err := csvimport.Read(bytes.NewReader(raw), a.limits)
	if err != nil {
		return nil, nil, err
	}
	return raw, table, nil
}

// Preview implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Preview(ctx context.Context, req attendance.PreviewRequest) (attendance.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PreviewResponse{}, err
	}
	_, table, err := a.readUpload(req.File)
	if err != nil {
		return attendance.PreviewResponse{}, err
	}

	return attendance.PreviewResponse{
		Columns:  table.Columns,
		RowCount: len(table.Rows),
		Preview:  table.Preview(previewRows),
		Encoding: table.Encoding,
	}, nil
}

type importCounts struct {
	records  int
	skipped  int
	findings []issue.Finding
}

// Import implements attendance.AttendanceService. The policy is resolved once
// per upload and every row is written in a single transaction.
func (a *AttendanceServiceImpl) Import(ctx context.Context, req attendance.ImportRequest) (attendance.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportResult{}, err
	}
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if !user.HasPermission(claims.Role, user.PermissionAttendanceImport) {
		return attendance.ImportResult{}, user.ErrInsufficientPermissions
	}
	if claims.IsStoreScoped() && *claims.StoreID != req.StoreID {
		return attendance.ImportResult{}, attendance.ErrStoreAccessDenied
	}
	if _, err := a.StoreRepository.GetByID(ctx, req.StoreID, claims.OrganizationID); err != nil {
		return attendance.ImportResult{}, err
	}

	raw, table, err := a.readUpload(req.File)
	if err != nil {
		return attendance.ImportResult{}, err
	}
	rows, err := table.Canonical()
	if err != nil {
		return attendance.ImportResult{}, err
	}

	org, err := a.OrganizationRepository.GetByID(ctx, claims.OrganizationID)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("failed to get organization: %w", err)
	}
	policy, err := a.resolver.Resolve(ctx, claims.OrganizationID)
	if err != nil {
		return attendance.ImportResult{}, err
	}

	batchID := ids.NewBatchID()
	var counts importCounts
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		counts = importCounts{}
		employeeCount, err := a.EmployeeRepository.CountByOrganization(ctx, org.ID)
		if err != nil {
			return err
		}
		known := make(map[string]string) // employee code -> id

		for _, row := range rows {
			employeeID, ok := known[row.EmployeeCode]
			if !ok {
				emp, err := a.EmployeeRepository.GetByCode(ctx, org.ID, row.EmployeeCode)
				switch {
				case err == nil:
				case errors.Is(err, employee.ErrEmployeeNotFound):
					if employeeCount >= org.MaxEmployees() {
						return fmt.Errorf("%w (%d)", organization.ErrEmployeeLimitReached, org.MaxEmployees())
					}
					storeID := req.StoreID
					emp, err = a.EmployeeRepository.Create(ctx, employee.Employee{
						OrganizationID: org.ID,
						StoreID:        &storeID,
						EmployeeCode:   row.EmployeeCode,
						Name:           row.Name,
					})
					if err != nil {
						return fmt.Errorf("line %d: %w", row.Line, err)
					}
					employeeCount++
				default:
					return fmt.Errorf("line %d: %w", row.Line, err)
				}
				employeeID = emp.ID
				known[row.EmployeeCode] = employeeID
			}

			exists, err := a.AttendanceRepository.ExistsForEmployeeDate(ctx, employeeID, row.Date)
			if err != nil {
				return err
			}
			if exists {
				counts.skipped++
				continue
			}

			rec := row.Record(employeeID)
			rec.ImportBatch = &batchID
			rec, err = a.AttendanceRepository.Create(ctx, rec)
			if err != nil {
				return fmt.Errorf("line %d: %w", row.Line, err)
			}
			counts.records++

			findings := a.detector.Detect(rec, policy)
			if _, err := a.IssueRepository.CreateFindings(ctx, rec.ID, findings); err != nil {
				return fmt.Errorf("line %d: %w", row.Line, err)
			}
			counts.findings = append(counts.findings, findings...)
		}
		return nil
	})
	if err != nil {
		return attendance.ImportResult{}, err
	}

	a.metrics.ImportRecords("imported", counts.records)
	a.metrics.ImportRecords("skipped", counts.skipped)
	for _, f := range counts.findings {
		a.metrics.FindingDetected(string(f.Type), string(f.Severity))
	}

	if a.fileService != nil {
		if _, err := a.fileService.ArchiveImport(ctx, org.ID, batchID, raw); err != nil {
			slog.Warn("failed to archive import upload", "batch_id", batchID, "error", err)
		}
	}

	slog.Info("attendance imported",
		"batch_id", batchID,
		"organization_id", org.ID,
		"store_id", req.StoreID,
		"records", counts.records,
		"skipped", counts.skipped,
		"issues", len(counts.findings),
		"encoding", table.Encoding,
	)

	result := attendance.ImportResult{
		BatchID:     batchID,
		Message:     importMessage(counts.records, counts.skipped),
		RecordCount: counts.records,
		SkipCount:   counts.skipped,
		IssueCount:  len(counts.findings),
	}
	a.events.Publish(sse.Event{
		OrganizationID: org.ID,
		Name:           attendance.EventImportCompleted,
		Data:           attendance.ImportCompletedEvent{ImportResult: result, StoreID: req.StoreID},
	})
	return result, nil
}

func importMessage(records, skipped int) string {
	msg := fmt.Sprintf("取り込みが完了しました（%d件追加", records)
	if skipped > 0 {
		msg += fmt.Sprintf("、%d件は既存データのためスキップ", skipped)
	}
	return msg + "）"
}

// ListRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordResponse{}, err
	}
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListRecordResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if claims.IsStoreScoped() {
		filter.StoreID = claims.StoreID
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter, claims.OrganizationID)
	if err != nil {
		return attendance.ListRecordResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListRecordResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Records:    responses,
	}, nil
}
