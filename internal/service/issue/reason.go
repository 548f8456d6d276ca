package issue

import (
	"regexp"
	"strings"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
)

var (
	placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)
	blankLinesPattern  = regexp.MustCompile(`\n{3,}`)
)

// reasonValues builds the placeholder values for a correction statement.
func reasonValues(is issue.Issue, req issue.GenerateReasonRequest, handlerName string, today time.Time) map[string]string {
	values := map[string]string{
		"issue_type":       is.Type.Label(),
		"rule_description": is.RuleDescription,
		"cause_category":   req.CauseCategory.Label(),
		"action_taken":     req.ActionTaken.Label(),
		"prevention":       req.Prevention.Label(),
		"handler_name":     handlerName,
		"today":            today.Format("2006-01-02"),
	}
	if req.CauseDetail != nil {
		values["cause_detail"] = strings.TrimSpace(*req.CauseDetail)
	}
	if rec := is.Record; rec != nil {
		values["date"] = rec.Date.Format("2006-01-02")
		if rec.EmployeeName != nil {
			values["employee_name"] = *rec.EmployeeName
		}
		if rec.EmployeeCode != nil {
			values["employee_code"] = *rec.EmployeeCode
		}
		if rec.StoreName != nil {
			values["store_name"] = *rec.StoreName
		}
	}
	return values
}

// RenderReason fills {name} placeholders from values and applies the vocabulary.
// A line whose placeholders are all known but empty is dropped, so optional
// fields such as {cause_detail} leave no dangling label. Unknown placeholders
// are kept verbatim.
func RenderReason(template string, values map[string]string, vocabulary []setting.VocabularyEntry) string {
	lines := strings.Split(strings.ReplaceAll(template, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		matches := placeholderPattern.FindAllStringSubmatch(line, -1)
		if len(matches) > 0 {
			empty := true
			for _, m := range matches {
				v, known := values[m[1]]
				if !known || v != "" {
					empty = false
					break
				}
			}
			if empty {
				continue
			}
		}

		out = append(out, placeholderPattern.ReplaceAllStringFunc(line, func(p string) string {
			if v, ok := values[p[1:len(p)-1]]; ok {
				return v
			}
			return p
		}))
	}

	text := strings.Join(out, "\n")
	text = applyVocabulary(text, vocabulary)
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func applyVocabulary(text string, vocabulary []setting.VocabularyEntry) string {
	if len(vocabulary) == 0 {
		return text
	}
	pairs := make([]string, 0, len(vocabulary)*2)
	for _, v := range vocabulary {
		if v.OriginalWord == "" {
			continue
		}
		pairs = append(pairs, v.OriginalWord, v.ReplacementWord)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// templateText returns the organization template, or the built-in one for the type.
func templateText(stored *setting.ReasonTemplate, templateType setting.TemplateType) string {
	if stored != nil && strings.TrimSpace(stored.TemplateText) != "" {
		return stored.TemplateText
	}
	for _, t := range setting.DefaultTemplates() {
		if t.TemplateType == templateType {
			return t.TemplateText
		}
	}
	return ""
}
