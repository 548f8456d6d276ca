package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
)

type ruleRepositoryImpl struct {
	db *database.DB
}

func NewRuleRepository(db *database.DB) setting.RuleRepository {
	return &ruleRepositoryImpl{db: db}
}

// GetByOrganization implements setting.RuleRepository.
func (r *ruleRepositoryImpl) GetByOrganization(ctx context.Context, organizationID string) (setting.DetectionRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, break_minutes_6h, break_minutes_8h, daily_work_hours_alert,
			   night_start_hour, night_end_hour, created_at, updated_at
		FROM detection_rules
		WHERE organization_id = $1
	`

	var rule setting.DetectionRule
	err := q.QueryRow(ctx, query, organizationID).Scan(
		&rule.ID, &rule.OrganizationID,
		&rule.BreakMinutesOver6h, &rule.BreakMinutesOver8h, &rule.DailyHoursOvertimeAlert,
		&rule.NightStartHour, &rule.NightEndHour,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return setting.DetectionRule{}, setting.ErrRuleNotFound
		}
		return setting.DetectionRule{}, fmt.Errorf("failed to get detection rule: %w", err)
	}
	return rule, nil
}

// Upsert implements setting.RuleRepository.
func (r *ruleRepositoryImpl) Upsert(ctx context.Context, rule setting.DetectionRule) (setting.DetectionRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO detection_rules (
			organization_id, break_minutes_6h, break_minutes_8h, daily_work_hours_alert,
			night_start_hour, night_end_hour
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (organization_id) DO UPDATE SET
			break_minutes_6h = EXCLUDED.break_minutes_6h,
			break_minutes_8h = EXCLUDED.break_minutes_8h,
			daily_work_hours_alert = EXCLUDED.daily_work_hours_alert,
			night_start_hour = EXCLUDED.night_start_hour,
			night_end_hour = EXCLUDED.night_end_hour,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		rule.OrganizationID,
		rule.BreakMinutesOver6h,
		rule.BreakMinutesOver8h,
		rule.DailyHoursOvertimeAlert,
		rule.NightStartHour,
		rule.NightEndHour,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return setting.DetectionRule{}, fmt.Errorf("failed to upsert detection rule: %w", err)
	}
	return rule, nil
}

type templateRepositoryImpl struct {
	db *database.DB
}

func NewTemplateRepository(db *database.DB) setting.TemplateRepository {
	return &templateRepositoryImpl{db: db}
}

// ListByOrganization implements setting.TemplateRepository.
func (r *templateRepositoryImpl) ListByOrganization(ctx context.Context, organizationID string) ([]setting.ReasonTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, template_type, template_text, created_at, updated_at
		FROM reason_templates
		WHERE organization_id = $1
		ORDER BY template_type
	`
	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reason templates: %w", err)
	}
	defer rows.Close()

	templates := make([]setting.ReasonTemplate, 0)
	for rows.Next() {
		var t setting.ReasonTemplate
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.TemplateType, &t.TemplateText, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reason template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// GetByType implements setting.TemplateRepository. It returns nil when the
// organization has no template of that type.
func (r *templateRepositoryImpl) GetByType(ctx context.Context, organizationID string, templateType setting.TemplateType) (*setting.ReasonTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, template_type, template_text, created_at, updated_at
		FROM reason_templates
		WHERE organization_id = $1 AND template_type = $2
	`
	var t setting.ReasonTemplate
	err := q.QueryRow(ctx, query, organizationID, templateType).Scan(
		&t.ID, &t.OrganizationID, &t.TemplateType, &t.TemplateText, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reason template: %w", err)
	}
	return &t, nil
}

// ReplaceAll implements setting.TemplateRepository. Call it inside WithTransaction.
func (r *templateRepositoryImpl) ReplaceAll(ctx context.Context, organizationID string, templates []setting.ReasonTemplate) ([]setting.ReasonTemplate, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM reason_templates WHERE organization_id = $1`, organizationID); err != nil {
		return nil, fmt.Errorf("failed to clear reason templates: %w", err)
	}

	query := `
		INSERT INTO reason_templates (organization_id, template_type, template_text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	saved := make([]setting.ReasonTemplate, 0, len(templates))
	for _, t := range templates {
		t.OrganizationID = organizationID
		if err := q.QueryRow(ctx, query, organizationID, t.TemplateType, t.TemplateText).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert reason template: %w", err)
		}
		saved = append(saved, t)
	}
	return saved, nil
}

type vocabularyRepositoryImpl struct {
	db *database.DB
}

func NewVocabularyRepository(db *database.DB) setting.VocabularyRepository {
	return &vocabularyRepositoryImpl{db: db}
}

// ListByOrganization implements setting.VocabularyRepository.
func (r *vocabularyRepositoryImpl) ListByOrganization(ctx context.Context, organizationID string) ([]setting.VocabularyEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, original_word, replacement_word, created_at
		FROM vocabulary_entries
		WHERE organization_id = $1
		ORDER BY created_at, id
	`
	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	defer rows.Close()

	entries := make([]setting.VocabularyEntry, 0)
	for rows.Next() {
		var e setting.VocabularyEntry
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.OriginalWord, &e.ReplacementWord, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReplaceAll implements setting.VocabularyRepository. Call it inside WithTransaction.
func (r *vocabularyRepositoryImpl) ReplaceAll(ctx context.Context, organizationID string, entries []setting.VocabularyEntry) ([]setting.VocabularyEntry, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM vocabulary_entries WHERE organization_id = $1`, organizationID); err != nil {
		return nil, fmt.Errorf("failed to clear vocabulary: %w", err)
	}

	query := `
		INSERT INTO vocabulary_entries (organization_id, original_word, replacement_word)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	saved := make([]setting.VocabularyEntry, 0, len(entries))
	for _, e := range entries {
		e.OrganizationID = organizationID
		if err := q.QueryRow(ctx, query, organizationID, e.OriginalWord, e.ReplacementWord).Scan(&e.ID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert vocabulary entry: %w", err)
		}
		saved = append(saved, e)
	}
	return saved, nil
}
