package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/report"
)

const jpFont = "jp"

// pdfLabels holds the static text of one PDF layout.
type pdfLabels struct {
	title   string
	month   string
	org     string
	store   string
	headers []string
	widths  []float64
	summary string
	row     func(r report.Row, masked bool) []string
	typ     func(t issue.Type) string
	status  func(s issue.Status) string
}

var japaneseLabels = pdfLabels{
	title:   "勤怠異常レポート",
	month:   "対象月",
	org:     "組織",
	store:   "店舗",
	headers: []string{"日付", "従業員", "店舗", "種別", "重要度", "ステータス", "内容"},
	widths:  []float64{20, 30, 24, 22, 12, 16, 66},
	summary: "集計",
	row: func(r report.Row, masked bool) []string {
		employee := r.EmployeeCode
		if !masked && r.EmployeeName != "" {
			employee += " " + r.EmployeeName
		}
		return []string{
			r.Date.Format("2006-01-02"), employee, r.StoreName,
			r.Type.Label(), r.Severity.Label(), r.Status.Label(), r.RuleDescription,
		}
	},
	typ:    issue.Type.Label,
	status: issue.Status.Label,
}

// englishLabels is used with the core fonts, which cannot render Japanese.
// Names and rule descriptions are left out for the same reason.
var englishLabels = pdfLabels{
	title:   "Attendance Anomaly Report",
	month:   "Month",
	org:     "Organization",
	store:   "Store",
	headers: []string{"Date", "Employee", "Type", "Severity", "Status"},
	widths:  []float64{30, 40, 50, 30, 40},
	summary: "Summary",
	row: func(r report.Row, _ bool) []string {
		return []string{
			r.Date.Format("2006-01-02"), r.EmployeeCode,
			string(r.Type), string(r.Severity), string(r.Status),
		}
	},
	typ:    func(t issue.Type) string { return string(t) },
	status: func(s issue.Status) string { return string(s) },
}

func renderPDF(rep report.MonthlyReport, fontPath string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family, labels := "Helvetica", englishLabels
	if fontPath != "" {
		pdf.AddUTF8Font(jpFont, "", fontPath)
		family, labels = jpFont, japaneseLabels
	}
	pdf.AddPage()

	pdf.SetFont(family, "", 16)
	pdf.Cell(0, 10, labels.title)
	pdf.Ln(12)

	pdf.SetFont(family, "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s: %s", labels.month, rep.Month.Format("2006-01")))
	pdf.Ln(6)
	if fontPath != "" {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %s", labels.org, rep.OrganizationName))
		pdf.Ln(6)
		if rep.StoreName != "" {
			pdf.Cell(0, 6, fmt.Sprintf("%s: %s", labels.store, rep.StoreName))
			pdf.Ln(6)
		}
	}
	pdf.Ln(4)

	pdf.SetFont(family, "", 8)
	for i, h := range labels.headers {
		pdf.CellFormat(labels.widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	for _, r := range rep.Rows {
		for i, v := range labels.row(r, rep.Masked) {
			pdf.CellFormat(labels.widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont(family, "", 10)
	pdf.Cell(0, 6, labels.summary)
	pdf.Ln(7)
	pdf.SetFont(family, "", 9)
	for _, t := range issue.Types {
		pdf.CellFormat(60, 6, labels.typ(t), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(rep.CountsByType[t]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
	for _, st := range []issue.Status{issue.StatusPending, issue.StatusInProgress, issue.StatusCompleted} {
		pdf.CellFormat(60, 6, labels.status(st), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(rep.CountsByStatus[st]), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf report: %w", err)
	}
	return buf.Bytes(), nil
}
