package setting

import "context"

// RuleRepository persists the per-organization detection rule override.
type RuleRepository interface {
	// GetByOrganization returns ErrRuleNotFound when the organization has no override
	GetByOrganization(ctx context.Context, organizationID string) (DetectionRule, error)

	// Upsert creates or replaces the override for rule.OrganizationID
	Upsert(ctx context.Context, rule DetectionRule) (DetectionRule, error)
}

// TemplateRepository persists reason templates. Writes replace the whole set.
type TemplateRepository interface {
	ListByOrganization(ctx context.Context, organizationID string) ([]ReasonTemplate, error)
	GetByType(ctx context.Context, organizationID string, templateType TemplateType) (*ReasonTemplate, error)
	ReplaceAll(ctx context.Context, organizationID string, templates []ReasonTemplate) ([]ReasonTemplate, error)
}

// VocabularyRepository persists the organization's vocabulary dictionary.
type VocabularyRepository interface {
	ListByOrganization(ctx context.Context, organizationID string) ([]VocabularyEntry, error)
	ReplaceAll(ctx context.Context, organizationID string, entries []VocabularyEntry) ([]VocabularyEntry, error)
}
