package detection

// Locale selects the language of rule descriptions.
type Locale string

const (
	LocaleJA Locale = "ja"
	LocaleEN Locale = "en"
)

type catalog struct {
	missingClockIn    string
	missingClockOut   string
	breakOver8h       string // required minutes, actual minutes
	breakOver6h       string // required minutes, actual minutes
	overtime          string // threshold hours, worked hours
	nightWork         string // window start, window end
	reversedPunches   string
	breakExceedsShift string
}

var catalogs = map[Locale]catalog{
	LocaleJA: {
		missingClockIn:    "出勤打刻がありません（退勤打刻のみ）",
		missingClockOut:   "退勤打刻がありません（出勤打刻のみ）",
		breakOver8h:       "8時間超勤務で休憩が%d分未満です（実績: %d分）",
		breakOver6h:       "6時間超勤務で休憩が%d分未満です（実績: %d分）",
		overtime:          "日次勤務時間が%d時間を超えています（実績: %.1f時間）",
		nightWork:         "深夜帯（%d時〜%d時）の勤務があります",
		reversedPunches:   "退勤時刻が出勤時刻より前です",
		breakExceedsShift: "休憩時間が勤務時間を超えています",
	},
	LocaleEN: {
		missingClockIn:    "Clock-in is missing (clock-out only)",
		missingClockOut:   "Clock-out is missing (clock-in only)",
		breakOver8h:       "Break under %d minutes on a shift over 8 hours (actual: %d minutes)",
		breakOver6h:       "Break under %d minutes on a shift over 6 hours (actual: %d minutes)",
		overtime:          "Daily working time exceeds %d hours (actual: %.1f hours)",
		nightWork:         "Work during the night window (%d:00 to %d:00)",
		reversedPunches:   "Clock-out precedes clock-in",
		breakExceedsShift: "Break time exceeds working time",
	},
}

// ParseLocale returns the matching locale, falling back to Japanese.
func ParseLocale(s string) Locale {
	if _, ok := catalogs[Locale(s)]; ok {
		return Locale(s)
	}
	return LocaleJA
}
