package setting

import "context"

// SettingService manages organization-level detection and text generation settings.
// The organization is taken from the authenticated claims in ctx.
type SettingService interface {
	GetRules(ctx context.Context) (PolicyConfig, error)
	UpdateRules(ctx context.Context, req UpdateRulesRequest) (PolicyConfig, error)

	GetTemplates(ctx context.Context) (TemplateListResponse, error)
	UpdateTemplates(ctx context.Context, req UpdateTemplatesRequest) (TemplateListResponse, error)

	GetDictionary(ctx context.Context) (DictionaryResponse, error)
	UpdateDictionary(ctx context.Context, req UpdateDictionaryRequest) (DictionaryResponse, error)
}
