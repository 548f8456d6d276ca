package csvimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/validator"
	"golang.org/x/text/encoding/japanese"
)

const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"

	maxRowErrors = 20
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Limits bounds the size of an accepted upload.
type Limits struct {
	MaxBytes int64
	MaxRows  int
}

var DefaultLimits = Limits{MaxBytes: 5 << 20, MaxRows: 10000}

// Table is a parsed CSV with canonical column names.
type Table struct {
	Encoding string
	Columns  []string
	Rows     [][]string
	index    map[string]int
}

// Read loads and validates an attendance export.
func Read(r io.Reader, limits Limits) (*Table, error) {
	raw, err := io.ReadAll(io.LimitReader(r, limits.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(raw)) > limits.MaxBytes {
		return nil, fmt.Errorf("%w (%dMB)", attendance.ErrFileTooLarge, limits.MaxBytes>>20)
	}

	content, encoding, err := decode(raw)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(content))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", attendance.ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", attendance.ErrMalformedCSV)
	}

	t := &Table{Encoding: encoding, index: make(map[string]int)}
	for i, h := range records[0] {
		col := NormalizeHeader(h)
		t.Columns = append(t.Columns, col)
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}

	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if len(t.Rows) > limits.MaxRows {
		return nil, fmt.Errorf("%w: %d rows (limit %d)", attendance.ErrTooManyRows, len(t.Rows), limits.MaxRows)
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := t.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", attendance.ErrMissingRequiredColumns, strings.Join(missing, ", "))
	}

	return t, nil
}

// decode returns UTF-8 content. Input that is not valid UTF-8 is treated as Shift-JIS,
// the default encoding of Japanese timeclock exports.
func decode(raw []byte) ([]byte, string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return raw, EncodingUTF8, nil
	}
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: unsupported text encoding", attendance.ErrMalformedCSV)
	}
	return out, EncodingShiftJIS, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Value returns the trimmed cell of a canonical column, or "" when absent.
func (t *Table) Value(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Preview returns up to n rows keyed by column name.
func (t *Table) Preview(n int) []map[string]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([]map[string]string, 0, n)
	for _, row := range t.Rows[:n] {
		m := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				m[col] = strings.TrimSpace(row[i])
			} else {
				m[col] = ""
			}
		}
		out = append(out, m)
	}
	return out
}

// Canonical converts every row with an employee code into a CanonicalRow.
// Rows without an employee code are dropped. Parse failures are reported per line
// as validator.ValidationErrors.
func (t *Table) Canonical() ([]attendance.CanonicalRow, error) {
	rows := make([]attendance.CanonicalRow, 0, len(t.Rows))
	var errs validator.ValidationErrors

	for i, rec := range t.Rows {
		line := i + 2 // header is line 1
		code := t.Value(rec, ColEmployeeCode)
		if code == "" {
			continue
		}

		row, err := t.parseRow(rec, line, code)
		if err != nil {
			if len(errs) < maxRowErrors {
				errs = append(errs, validator.ValidationError{
					Field:   "line " + strconv.Itoa(line),
					Message: err.Error(),
				})
			}
			continue
		}
		rows = append(rows, row)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rows, nil
}

func (t *Table) parseRow(rec []string, line int, code string) (attendance.CanonicalRow, error) {
	row := attendance.CanonicalRow{Line: line, EmployeeCode: code}

	row.Name = t.Value(rec, ColName)
	if row.Name == "" {
		row.Name = code
	}

	date, err := ParseDate(t.Value(rec, ColDate))
	if err != nil {
		return row, err
	}
	row.Date = date

	if row.ClockIn, err = optionalClock(t.Value(rec, ColClockIn)); err != nil {
		return row, err
	}
	if row.ClockOut, err = optionalClock(t.Value(rec, ColClockOut)); err != nil {
		return row, err
	}
	if row.BreakMinutes, err = ParseBreakMinutes(t.Value(rec, ColBreakMinutes)); err != nil {
		return row, err
	}
	if wt := t.Value(rec, ColWorkType); wt != "" {
		row.WorkType = &wt
	}
	return row, nil
}

func optionalClock(s string) (*attendance.Clock, error) {
	if s == "" {
		return nil, nil
	}
	c, err := attendance.ParseClock(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006年1月2日",
}

// ParseDate accepts the date layouts emitted by supported timeclock vendors.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// Some exports append the weekday, e.g. "2024/01/05(金)".
	if i := strings.IndexAny(s, "(（"); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", attendance.ErrInvalidDate, s)
}

// ParseBreakMinutes accepts whole minutes ("60") or a duration ("1:00").
// An empty cell yields nil.
func ParseBreakMinutes(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err1 := strconv.Atoi(h)
		mins, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || hours < 0 || mins < 0 || mins > 59 {
			return nil, fmt.Errorf("%w: %q", attendance.ErrInvalidBreakMinutes, s)
		}
		total := hours*60 + mins
		return &total, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		// Spreadsheet exports sometimes write "60.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return nil, fmt.Errorf("%w: %q", attendance.ErrInvalidBreakMinutes, s)
		}
		n = int(f)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %q", attendance.ErrInvalidBreakMinutes, s)
	}
	return &n, nil
}
