package setting

import "time"

// PolicyConfig holds the five thresholds that control detection sensitivity.
type PolicyConfig struct {
	BreakMinutesOver6h      int `json:"break_minutes_6h"`
	BreakMinutesOver8h      int `json:"break_minutes_8h"`
	DailyHoursOvertimeAlert int `json:"daily_work_hours_alert"`
	NightStartHour          int `json:"night_start_hour"`
	NightEndHour            int `json:"night_end_hour"`
}

// DefaultPolicy returns the system defaults used when an organization has no override.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		BreakMinutesOver6h:      45,
		BreakMinutesOver8h:      60,
		DailyHoursOvertimeAlert: 10,
		NightStartHour:          22,
		NightEndHour:            5,
	}
}

// DetectionRule is the persisted per-organization override of the policy.
type DetectionRule struct {
	ID             string
	OrganizationID string
	PolicyConfig
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TemplateType string

const (
	TemplateInternal TemplateType = "internal" // concise internal record
	TemplateEmployee TemplateType = "employee" // polite notice to the employee
	TemplateAudit    TemplateType = "audit"    // factual audit submission
)

func (t TemplateType) IsValid() bool {
	switch t {
	case TemplateInternal, TemplateEmployee, TemplateAudit:
		return true
	}
	return false
}

// ReasonTemplate is an organization-defined correction statement layout.
// Placeholders use the {name} form, e.g. {employee_name} or {rule_description}.
type ReasonTemplate struct {
	ID             string
	OrganizationID string
	TemplateType   TemplateType
	TemplateText   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// VocabularyEntry replaces OriginalWord with ReplacementWord in generated text.
type VocabularyEntry struct {
	ID              string
	OrganizationID  string
	OriginalWord    string
	ReplacementWord string
	CreatedAt       time.Time
}
