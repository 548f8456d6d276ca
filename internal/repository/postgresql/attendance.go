package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func clockParam(c *attendance.Clock) pgtype.Time {
	if c == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: c.Microseconds(), Valid: true}
}

func clockValue(t pgtype.Time) *attendance.Clock {
	if !t.Valid {
		return nil
	}
	c := attendance.FromMicroseconds(t.Microseconds)
	return &c
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (employee_id, date, clock_in, clock_out, break_minutes, work_type, import_batch)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, imported_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.Date,
		clockParam(rec.ClockIn),
		clockParam(rec.ClockOut),
		rec.BreakMinutes,
		rec.WorkType,
		rec.ImportBatch,
	).Scan(&rec.ID, &rec.ImportedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrRecordAlreadyExists
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return rec, nil
}

// ExistsForEmployeeDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ExistsForEmployeeDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM attendance_records WHERE employee_id = $1 AND date = $2)`,
		employeeID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance record: %w", err)
	}
	return exists, nil
}

const recordSelect = `
	SELECT a.id, a.employee_id, a.date, a.clock_in, a.clock_out, a.break_minutes,
		   a.work_type, a.import_batch, a.imported_at,
		   e.employee_code, e.name, e.store_id, s.name
	FROM attendance_records a
	JOIN employees e ON e.id = a.employee_id
	LEFT JOIN stores s ON s.id = e.store_id
`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	var in, out pgtype.Time
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &in, &out, &rec.BreakMinutes,
		&rec.WorkType, &rec.ImportBatch, &rec.ImportedAt,
		&rec.EmployeeCode, &rec.EmployeeName, &rec.StoreID, &rec.StoreName,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.ClockIn = clockValue(in)
	rec.ClockOut = clockValue(out)
	return rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanRecord(q.QueryRow(ctx, recordSelect+` WHERE a.id = $1 AND e.organization_id = $2`, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.RecordFilter, organizationID string) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "e.organization_id = $1"
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.StoreID != nil && *filter.StoreID != "" {
		baseWhere += fmt.Sprintf(" AND e.store_id = $%d", argIdx)
		args = append(args, *filter.StoreID)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	selectQuery := fmt.Sprintf(`%s WHERE %s ORDER BY a.date DESC, e.employee_code LIMIT $%d OFFSET $%d`,
		recordSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}
