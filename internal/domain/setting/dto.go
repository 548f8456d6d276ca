package setting

import (
	"fmt"
	"strings"

	"github.com/kintai-check/kintai-backend-go/internal/pkg/validator"
)

// ========================================
// DETECTION RULE DTOs
// ========================================

// UpdateRulesRequest is a partial update; nil fields keep their current value.
type UpdateRulesRequest struct {
	BreakMinutesOver6h      *int `json:"break_minutes_6h"`
	BreakMinutesOver8h      *int `json:"break_minutes_8h"`
	DailyHoursOvertimeAlert *int `json:"daily_work_hours_alert"`
	NightStartHour          *int `json:"night_start_hour"`
	NightEndHour            *int `json:"night_end_hour"`
}

func (r *UpdateRulesRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.CheckRange("break_minutes_6h", r.BreakMinutesOver6h, 0, 120)
	errs.CheckRange("break_minutes_8h", r.BreakMinutesOver8h, 0, 120)
	errs.CheckRange("daily_work_hours_alert", r.DailyHoursOvertimeAlert, 1, 24)
	errs.CheckRange("night_start_hour", r.NightStartHour, 0, 23)
	errs.CheckRange("night_end_hour", r.NightEndHour, 0, 23)
	return errs.Err()
}

// ApplyTo overlays the non-nil fields of r onto base.
func (r UpdateRulesRequest) ApplyTo(base PolicyConfig) PolicyConfig {
	if r.BreakMinutesOver6h != nil {
		base.BreakMinutesOver6h = *r.BreakMinutesOver6h
	}
	if r.BreakMinutesOver8h != nil {
		base.BreakMinutesOver8h = *r.BreakMinutesOver8h
	}
	if r.DailyHoursOvertimeAlert != nil {
		base.DailyHoursOvertimeAlert = *r.DailyHoursOvertimeAlert
	}
	if r.NightStartHour != nil {
		base.NightStartHour = *r.NightStartHour
	}
	if r.NightEndHour != nil {
		base.NightEndHour = *r.NightEndHour
	}
	return base
}

// ========================================
// REASON TEMPLATE DTOs
// ========================================

type TemplateItem struct {
	ID           string       `json:"id,omitempty"`
	TemplateType TemplateType `json:"template_type"`
	TemplateText string       `json:"template_text"`
}

type TemplateListResponse struct {
	Templates []TemplateItem `json:"templates"`
	IsDefault bool           `json:"is_default"`
}

type UpdateTemplatesRequest struct {
	Templates []TemplateItem `json:"templates"`
}

func (r *UpdateTemplatesRequest) Validate() error {
	var errs validator.ValidationErrors

	seen := make(map[TemplateType]bool)
	for i, t := range r.Templates {
		field := fmt.Sprintf("templates[%d]", i)
		if !t.TemplateType.IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".template_type",
				Message: "template_type must be one of: internal, employee, audit",
			})
		} else if seen[t.TemplateType] {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".template_type",
				Message: "duplicate template_type " + string(t.TemplateType),
			})
		}
		seen[t.TemplateType] = true

		errs.CheckText(field+".template_text", t.TemplateText, true, 4000)
	}
	return errs.Err()
}

// DefaultTemplates returns the built-in templates used until an organization stores its own.
func DefaultTemplates() []TemplateItem {
	return []TemplateItem{
		{
			TemplateType: TemplateInternal,
			TemplateText: strings.Join([]string{
				"【勤怠異常対応記録】",
				"",
				"対象: {employee_name}（{employee_code}）",
				"日付: {date}",
				"異常: {issue_type}",
				"",
				"原因: {cause_category}",
				"詳細: {cause_detail}",
				"",
				"対応: {action_taken}",
				"再発防止: {prevention}",
				"",
				"対応者: {handler_name}",
				"対応日: {today}",
			}, "\n"),
		},
		{
			TemplateType: TemplateEmployee,
			TemplateText: strings.Join([]string{
				"{employee_name} 様",
				"",
				"お疲れ様です。勤怠管理担当の{handler_name}です。",
				"",
				"{date}の勤怠データについて確認がございます。",
				"",
				"【確認事項】",
				"{issue_type}が検出されました。",
				"",
				"【原因】",
				"{cause_category}によるものと確認いたしました。",
				"{cause_detail}",
				"",
				"【対応】",
				"{action_taken}を実施いたします。",
				"",
				"お手数ですが、上記内容に相違がないかご確認をお願いいたします。",
				"",
				"{handler_name}",
				"{today}",
			}, "\n"),
		},
		{
			TemplateType: TemplateAudit,
			TemplateText: strings.Join([]string{
				"勤怠異常是正報告書",
				"",
				"1. 事実",
				"  対象日: {date}",
				"  対象事業所: {store_name}",
				"  対象者: 従業員コード {employee_code}",
				"  検出内容: {issue_type}",
				"  検出根拠: {rule_description}",
				"",
				"2. 原因",
				"  分類: {cause_category}",
				"  詳細: {cause_detail}",
				"",
				"3. 対応措置",
				"  実施内容: {action_taken}",
				"  対応日: {today}",
				"  対応者: {handler_name}",
				"",
				"4. 再発防止策",
				"  {prevention}",
				"",
				"※本報告書は勤怠データの機械的検知結果に基づき自動生成されたものであり、",
				"  法令違反の確定判断を行うものではありません。最終的な判断および責任は管理者に帰属します。",
			}, "\n"),
		},
	}
}

// ========================================
// VOCABULARY DTOs
// ========================================

type DictionaryItem struct {
	ID              string `json:"id,omitempty"`
	OriginalWord    string `json:"original_word"`
	ReplacementWord string `json:"replacement_word"`
}

type DictionaryResponse struct {
	Dictionary []DictionaryItem `json:"dictionary"`
}

type UpdateDictionaryRequest struct {
	Dictionary []DictionaryItem `json:"dictionary"`
}

func (r *UpdateDictionaryRequest) Validate() error {
	var errs validator.ValidationErrors

	for i, e := range r.Dictionary {
		field := fmt.Sprintf("dictionary[%d]", i)
		errs.CheckText(field+".original_word", e.OriginalWord, true, 100)
		errs.CheckText(field+".replacement_word", e.ReplacementWord, false, 100)
	}
	return errs.Err()
}
