package csvimport

import "strings"

// Canonical column names.
const (
	ColEmployeeCode = "employee_code"
	ColName         = "name"
	ColDate         = "date"
	ColClockIn      = "clock_in"
	ColClockOut     = "clock_out"
	ColBreakMinutes = "break_minutes"
	ColWorkType     = "work_type"
)

// RequiredColumns must be present after header normalization.
var RequiredColumns = []string{ColEmployeeCode, ColDate}

// columnAliases maps vendor export headers onto canonical names.
var columnAliases = map[string]string{
	// Jobcan
	"スタッフコード": ColEmployeeCode,
	"スタッフ名":   ColName,
	"日付":      ColDate,
	"出勤時刻":    ColClockIn,
	"退勤時刻":    ColClockOut,
	"休憩時間":    ColBreakMinutes,
	"勤務区分":    ColWorkType,

	// AirShift
	"従業員番号": ColEmployeeCode,
	"従業員名":  ColName,
	"出勤":    ColClockIn,
	"退勤":    ColClockOut,
	"休憩":    ColBreakMinutes,

	// generic
	"employee_id":   ColEmployeeCode,
	"employee_name": ColName,
}

// NormalizeHeader trims a header cell and maps known vendor names to canonical ones.
// Unknown headers are returned trimmed and otherwise unchanged.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	if c, ok := columnAliases[h]; ok {
		return c
	}
	return h
}
