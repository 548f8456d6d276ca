package attendance

import "time"

// Record is the canonical one-employee-one-day punch record.
// At most one record exists per (EmployeeID, Date).
type Record struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	ClockIn      *Clock
	ClockOut     *Clock
	BreakMinutes *int
	WorkType     *string
	ImportBatch  *string
	ImportedAt   time.Time

	// DTO / Join
	EmployeeCode *string
	EmployeeName *string
	StoreID      *string
	StoreName    *string
}

// Break returns the recorded break minutes, treating an absent value as zero.
func (r Record) Break() int {
	if r.BreakMinutes == nil {
		return 0
	}
	return *r.BreakMinutes
}

// CanonicalRow is one normalized CSV row before it is bound to an employee.
type CanonicalRow struct {
	Line         int
	EmployeeCode string
	Name         string
	Date         time.Time
	ClockIn      *Clock
	ClockOut     *Clock
	BreakMinutes *int
	WorkType     *string
}

// Record converts the row into an attendance record for employeeID.
func (r CanonicalRow) Record(employeeID string) Record {
	return Record{
		EmployeeID:   employeeID,
		Date:         r.Date,
		ClockIn:      r.ClockIn,
		ClockOut:     r.ClockOut,
		BreakMinutes: r.BreakMinutes,
		WorkType:     r.WorkType,
	}
}
