package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/report"
)

// utf8BOM makes spreadsheet software detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const maskedName = "***"

func renderCSV(rep report.MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"対象月", rep.Month.Format("2006-01")},
		{"組織", rep.OrganizationName},
	}
	if rep.StoreName != "" {
		records = append(records, []string{"店舗", rep.StoreName})
	}
	records = append(records,
		[]string{},
		[]string{"日付", "従業員コード", "従業員名", "店舗", "種別", "重要度", "ステータス", "内容"},
	)
	for _, r := range rep.Rows {
		name := r.EmployeeName
		if rep.Masked {
			name = maskedName
		}
		records = append(records, []string{
			r.Date.Format("2006-01-02"),
			r.EmployeeCode,
			name,
			r.StoreName,
			r.Type.Label(),
			r.Severity.Label(),
			r.Status.Label(),
			r.RuleDescription,
		})
	}

	records = append(records, []string{}, []string{"種別", "件数"})
	for _, t := range issue.Types {
		records = append(records, []string{t.Label(), strconv.Itoa(rep.CountsByType[t])})
	}
	records = append(records, []string{}, []string{"ステータス", "件数"})
	for _, st := range []issue.Status{issue.StatusPending, issue.StatusInProgress, issue.StatusCompleted} {
		records = append(records, []string{st.Label(), strconv.Itoa(rep.CountsByStatus[st])})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv report: %w", err)
	}
	return buf.Bytes(), nil
}
