package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
)

type issueRepositoryImpl struct {
	db *database.DB
}

func NewIssueRepository(db *database.DB) issue.IssueRepository {
	return &issueRepositoryImpl{db: db}
}

// CreateFindings implements issue.IssueRepository.
func (r *issueRepositoryImpl) CreateFindings(ctx context.Context, attendanceRecordID string, findings []issue.Finding) ([]issue.Issue, error) {
	if len(findings) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO issues (attendance_record_id, type, severity, rule_description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, detected_at, updated_at
	`

	created := make([]issue.Issue, 0, len(findings))
	for _, f := range findings {
		is := issue.Issue{AttendanceRecordID: attendanceRecordID, Finding: f}
		err := q.QueryRow(ctx, query, attendanceRecordID, f.Type, f.Severity, f.RuleDescription).Scan(
			&is.ID, &is.Status, &is.DetectedAt, &is.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create issue: %w", err)
		}
		created = append(created, is)
	}
	return created, nil
}

const issueSelect = `
	SELECT i.id, i.attendance_record_id, i.type, i.severity, i.rule_description, i.status,
		   i.detected_at, i.updated_at, e.organization_id,
		   a.id, a.employee_id, a.date, a.clock_in, a.clock_out, a.break_minutes,
		   a.work_type, a.import_batch, a.imported_at,
		   e.employee_code, e.name, e.store_id, s.name
	FROM issues i
	JOIN attendance_records a ON a.id = i.attendance_record_id
	JOIN employees e ON e.id = a.employee_id
	LEFT JOIN stores s ON s.id = e.store_id
`

func scanIssue(row pgx.Row) (issue.Issue, error) {
	var is issue.Issue
	var rec attendance.Record
	var in, out pgtype.Time
	err := row.Scan(
		&is.ID, &is.AttendanceRecordID, &is.Type, &is.Severity, &is.RuleDescription, &is.Status,
		&is.DetectedAt, &is.UpdatedAt, &is.OrganizationID,
		&rec.ID, &rec.EmployeeID, &rec.Date, &in, &out, &rec.BreakMinutes,
		&rec.WorkType, &rec.ImportBatch, &rec.ImportedAt,
		&rec.EmployeeCode, &rec.EmployeeName, &rec.StoreID, &rec.StoreName,
	)
	if err != nil {
		return issue.Issue{}, err
	}
	rec.ClockIn = clockValue(in)
	rec.ClockOut = clockValue(out)
	is.Record = &rec
	return is, nil
}

func collectIssues(rows pgx.Rows) ([]issue.Issue, error) {
	defer rows.Close()

	issues := make([]issue.Issue, 0)
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, is)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issues: %w", err)
	}
	return issues, nil
}

// GetByID implements issue.IssueRepository.
func (r *issueRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (issue.Issue, error) {
	q := GetQuerier(ctx, r.db)

	is, err := scanIssue(q.QueryRow(ctx, issueSelect+` WHERE i.id = $1 AND e.organization_id = $2`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return issue.Issue{}, issue.ErrIssueNotFound
		}
		return issue.Issue{}, fmt.Errorf("failed to get issue: %w", err)
	}
	return is, nil
}

// List implements issue.IssueRepository.
func (r *issueRepositoryImpl) List(ctx context.Context, filter issue.IssueFilter, organizationID string) ([]issue.Issue, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "e.organization_id = $1"
	args := []interface{}{organizationID}
	argIdx := 2

	add := func(clause string, v *string) {
		if v == nil || *v == "" {
			return
		}
		baseWhere += fmt.Sprintf(" AND "+clause, argIdx)
		args = append(args, *v)
		argIdx++
	}
	add("e.store_id = $%d", filter.StoreID)
	add("a.employee_id = $%d", filter.EmployeeID)
	add("i.type = $%d", filter.Type)
	add("i.severity = $%d", filter.Severity)
	add("i.status = $%d", filter.Status)
	add("a.date >= $%d", filter.DateFrom)
	add("a.date <= $%d", filter.DateTo)

	countQuery := `
		SELECT COUNT(*)
		FROM issues i
		JOIN attendance_records a ON a.id = i.attendance_record_id
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count issues: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	selectQuery := fmt.Sprintf(`%s WHERE %s ORDER BY i.detected_at DESC, a.date DESC LIMIT $%d OFFSET $%d`,
		issueSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query issues: %w", err)
	}
	issues, err := collectIssues(rows)
	if err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// UpdateStatus implements issue.IssueRepository.
func (r *issueRepositoryImpl) UpdateStatus(ctx context.Context, id string, status issue.Status) (issue.Status, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE issues i
		SET status = $1, updated_at = NOW()
		FROM (SELECT id, status FROM issues WHERE id = $2 FOR UPDATE) old
		WHERE i.id = old.id
		RETURNING old.status
	`

	var old issue.Status
	if err := q.QueryRow(ctx, query, status, id).Scan(&old); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", issue.ErrIssueNotFound
		}
		return "", fmt.Errorf("failed to update issue status: %w", err)
	}
	return old, nil
}

// CreateLog implements issue.IssueRepository.
func (r *issueRepositoryImpl) CreateLog(ctx context.Context, log issue.Log) (issue.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO issue_logs (issue_id, user_id, action, memo)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := q.QueryRow(ctx, query, log.IssueID, log.UserID, log.Action, log.Memo).Scan(&log.ID, &log.CreatedAt); err != nil {
		return issue.Log{}, fmt.Errorf("failed to create issue log: %w", err)
	}
	return log, nil
}

// ListLogs implements issue.IssueRepository.
func (r *issueRepositoryImpl) ListLogs(ctx context.Context, issueID string) ([]issue.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT l.id, l.issue_id, l.user_id, u.name, l.action, l.memo, l.created_at
		FROM issue_logs l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE l.issue_id = $1
		ORDER BY l.created_at
	`
	rows, err := q.Query(ctx, query, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issue logs: %w", err)
	}
	defer rows.Close()

	logs := make([]issue.Log, 0)
	for rows.Next() {
		var l issue.Log
		if err := rows.Scan(&l.ID, &l.IssueID, &l.UserID, &l.UserName, &l.Action, &l.Memo, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan issue log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CreateCorrectionReason implements issue.IssueRepository.
func (r *issueRepositoryImpl) CreateCorrectionReason(ctx context.Context, reason issue.CorrectionReason) (issue.CorrectionReason, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO correction_reasons (
			issue_id, template_type, cause_category, cause_detail,
			action_taken, prevention, generated_text, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		reason.IssueID,
		reason.TemplateType,
		reason.CauseCategory,
		reason.CauseDetail,
		reason.ActionTaken,
		reason.Prevention,
		reason.GeneratedText,
		reason.CreatedBy,
	).Scan(&reason.ID, &reason.CreatedAt)
	if err != nil {
		return issue.CorrectionReason{}, fmt.Errorf("failed to create correction reason: %w", err)
	}
	return reason, nil
}

// CountCorrectionReasonsSince implements issue.IssueRepository.
func (r *issueRepositoryImpl) CountCorrectionReasonsSince(ctx context.Context, organizationID string, t time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM correction_reasons c
		JOIN issues i ON i.id = c.issue_id
		JOIN attendance_records a ON a.id = i.attendance_record_id
		JOIN employees e ON e.id = a.employee_id
		WHERE e.organization_id = $1 AND c.created_at >= $2
	`
	var n int
	if err := q.QueryRow(ctx, query, organizationID, t).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count correction reasons: %w", err)
	}
	return n, nil
}

// ListForPeriod implements issue.IssueRepository.
func (r *issueRepositoryImpl) ListForPeriod(ctx context.Context, organizationID string, storeID *string, from, to time.Time) ([]issue.Issue, error) {
	q := GetQuerier(ctx, r.db)

	query := issueSelect + ` WHERE e.organization_id = $1 AND a.date >= $2 AND a.date < $3`
	args := []interface{}{organizationID, from, to}
	if storeID != nil && *storeID != "" {
		query += ` AND e.store_id = $4`
		args = append(args, *storeID)
	}
	query += ` ORDER BY a.date, e.employee_code, i.detected_at`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues for period: %w", err)
	}
	return collectIssues(rows)
}
