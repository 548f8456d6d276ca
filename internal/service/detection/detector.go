package detection

import (
	"fmt"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
)

// reversedPunchMinHour is the clock-out hour above which a clock-out earlier than
// the clock-in is treated as reversed punches rather than an overnight shift.
const reversedPunchMinHour = 6

// Detector evaluates attendance records against a policy. It holds no mutable
// state and is safe for concurrent use.
type Detector struct {
	msg catalog
}

func NewDetector(locale Locale) *Detector {
	return &Detector{msg: catalogs[ParseLocale(string(locale))]}
}

var defaultDetector = NewDetector(LocaleJA)

// Detect runs the Japanese-locale detector.
func Detect(rec attendance.Record, cfg setting.PolicyConfig) []issue.Finding {
	return defaultDetector.Detect(rec, cfg)
}

// Detect returns the findings for rec in rule evaluation order.
func (d *Detector) Detect(rec attendance.Record, cfg setting.PolicyConfig) []issue.Finding {
	var findings []issue.Finding
	add := func(t issue.Type, s issue.Severity, desc string) {
		findings = append(findings, issue.Finding{Type: t, Severity: s, RuleDescription: desc})
	}

	if rec.ClockIn == nil && rec.ClockOut != nil {
		add(issue.TypeMissingClockIn, issue.SeverityHigh, d.msg.missingClockIn)
	}
	if rec.ClockIn != nil && rec.ClockOut == nil {
		add(issue.TypeMissingClockOut, issue.SeverityHigh, d.msg.missingClockOut)
	}
	if rec.ClockIn == nil || rec.ClockOut == nil {
		return findings
	}

	in, out := *rec.ClockIn, *rec.ClockOut
	worked := WorkedHours(in, out)
	breakMinutes := rec.Break()

	switch {
	case worked > 8:
		if breakMinutes < cfg.BreakMinutesOver8h {
			add(issue.TypeInsufficientBreak, issue.SeverityHigh,
				fmt.Sprintf(d.msg.breakOver8h, cfg.BreakMinutesOver8h, breakMinutes))
		}
	case worked > 6:
		if breakMinutes < cfg.BreakMinutesOver6h {
			add(issue.TypeInsufficientBreak, issue.SeverityHigh,
				fmt.Sprintf(d.msg.breakOver6h, cfg.BreakMinutesOver6h, breakMinutes))
		}
	}

	if worked > float64(cfg.DailyHoursOvertimeAlert) {
		add(issue.TypeOvertime, issue.SeverityMedium,
			fmt.Sprintf(d.msg.overtime, cfg.DailyHoursOvertimeAlert, worked))
	}

	if IsNightWork(in, out, cfg.NightStartHour, cfg.NightEndHour) {
		add(issue.TypeNightWork, issue.SeverityLow,
			fmt.Sprintf(d.msg.nightWork, cfg.NightStartHour, cfg.NightEndHour))
	}

	if out.On(anchor).Before(in.On(anchor)) && out.Hour > reversedPunchMinHour {
		add(issue.TypeInconsistency, issue.SeverityHigh, d.msg.reversedPunches)
	}

	if float64(breakMinutes) > worked*60 {
		add(issue.TypeInconsistency, issue.SeverityHigh, d.msg.breakExceedsShift)
	}

	return findings
}
