package setting

import (
	"context"
	"errors"
	"fmt"

	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/service/detection"
)

type SettingServiceImpl struct {
	tx database.Transactor
	setting.RuleRepository
	setting.TemplateRepository
	setting.VocabularyRepository
	resolver *detection.Resolver
}

func NewSettingService(
	tx database.Transactor,
	ruleRepo setting.RuleRepository,
	templateRepo setting.TemplateRepository,
	vocabularyRepo setting.VocabularyRepository,
	resolver *detection.Resolver,
) setting.SettingService {
	return &SettingServiceImpl{
		tx:                   tx,
		RuleRepository:       ruleRepo,
		TemplateRepository:   templateRepo,
		VocabularyRepository: vocabularyRepo,
		resolver:             resolver,
	}
}

func adminClaims(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if claims.Role != user.RoleAdmin {
		return jwt.Claims{}, user.ErrAdminAccessRequired
	}
	return claims, nil
}

// GetRules implements setting.SettingService.
func (s *SettingServiceImpl) GetRules(ctx context.Context) (setting.PolicyConfig, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return setting.PolicyConfig{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	return s.resolver.Resolve(ctx, claims.OrganizationID)
}

// UpdateRules implements setting.SettingService. The first update creates the
// override from the defaults; later updates change only the supplied fields.
func (s *SettingServiceImpl) UpdateRules(ctx context.Context, req setting.UpdateRulesRequest) (setting.PolicyConfig, error) {
	if err := req.Validate(); err != nil {
		return setting.PolicyConfig{}, err
	}
	claims, err := adminClaims(ctx)
	if err != nil {
		return setting.PolicyConfig{}, err
	}

	base := s.resolver.Defaults()
	current, err := s.RuleRepository.GetByOrganization(ctx, claims.OrganizationID)
	switch {
	case err == nil:
		base = current.PolicyConfig
	case !errors.Is(err, setting.ErrRuleNotFound):
		return setting.PolicyConfig{}, fmt.Errorf("failed to load detection rule: %w", err)
	}

	saved, err := s.RuleRepository.Upsert(ctx, setting.DetectionRule{
		OrganizationID: claims.OrganizationID,
		PolicyConfig:   req.ApplyTo(base),
	})
	if err != nil {
		return setting.PolicyConfig{}, fmt.Errorf("failed to save detection rule: %w", err)
	}
	return saved.PolicyConfig, nil
}

func toTemplateItems(templates []setting.ReasonTemplate) []setting.TemplateItem {
	items := make([]setting.TemplateItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, setting.TemplateItem{
			ID:           t.ID,
			TemplateType: t.TemplateType,
			TemplateText: t.TemplateText,
		})
	}
	return items
}

// GetTemplates implements setting.SettingService. Organizations without stored
// templates get the built-in set.
func (s *SettingServiceImpl) GetTemplates(ctx context.Context) (setting.TemplateListResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return setting.TemplateListResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	templates, err := s.TemplateRepository.ListByOrganization(ctx, claims.OrganizationID)
	if err != nil {
		return setting.TemplateListResponse{}, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(templates) == 0 {
		return setting.TemplateListResponse{Templates: setting.DefaultTemplates(), IsDefault: true}, nil
	}
	return setting.TemplateListResponse{Templates: toTemplateItems(templates)}, nil
}

// UpdateTemplates implements setting.SettingService.
func (s *SettingServiceImpl) UpdateTemplates(ctx context.Context, req setting.UpdateTemplatesRequest) (setting.TemplateListResponse, error) {
	if err := req.Validate(); err != nil {
		return setting.TemplateListResponse{}, err
	}
	claims, err := adminClaims(ctx)
	if err != nil {
		return setting.TemplateListResponse{}, err
	}

	templates := make([]setting.ReasonTemplate, 0, len(req.Templates))
	for _, item := range req.Templates {
		templates = append(templates, setting.ReasonTemplate{
			TemplateType: item.TemplateType,
			TemplateText: item.TemplateText,
		})
	}

	var saved []setting.ReasonTemplate
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.TemplateRepository.ReplaceAll(ctx, claims.OrganizationID, templates)
		return err
	})
	if err != nil {
		return setting.TemplateListResponse{}, fmt.Errorf("failed to save templates: %w", err)
	}

	if len(saved) == 0 {
		return setting.TemplateListResponse{Templates: setting.DefaultTemplates(), IsDefault: true}, nil
	}
	return setting.TemplateListResponse{Templates: toTemplateItems(saved)}, nil
}

func toDictionary(entries []setting.VocabularyEntry) setting.DictionaryResponse {
	items := make([]setting.DictionaryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, setting.DictionaryItem{
			ID:              e.ID,
			OriginalWord:    e.OriginalWord,
			ReplacementWord: e.ReplacementWord,
		})
	}
	return setting.DictionaryResponse{Dictionary: items}
}

// GetDictionary implements setting.SettingService.
func (s *SettingServiceImpl) GetDictionary(ctx context.Context) (setting.DictionaryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return setting.DictionaryResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	entries, err := s.VocabularyRepository.ListByOrganization(ctx, claims.OrganizationID)
	if err != nil {
		return setting.DictionaryResponse{}, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	return toDictionary(entries), nil
}

// UpdateDictionary implements setting.SettingService.
func (s *SettingServiceImpl) UpdateDictionary(ctx context.Context, req setting.UpdateDictionaryRequest) (setting.DictionaryResponse, error) {
	if err := req.Validate(); err != nil {
		return setting.DictionaryResponse{}, err
	}
	claims, err := adminClaims(ctx)
	if err != nil {
		return setting.DictionaryResponse{}, err
	}

	entries := make([]setting.VocabularyEntry, 0, len(req.Dictionary))
	for _, item := range req.Dictionary {
		entries = append(entries, setting.VocabularyEntry{
			OriginalWord:    item.OriginalWord,
			ReplacementWord: item.ReplacementWord,
		})
	}

	var saved []setting.VocabularyEntry
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.VocabularyRepository.ReplaceAll(ctx, claims.OrganizationID, entries)
		return err
	})
	if err != nil {
		return setting.DictionaryResponse{}, fmt.Errorf("failed to save vocabulary: %w", err)
	}
	return toDictionary(saved), nil
}
