package detection

import (
	"context"
	"errors"
	"fmt"

	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
)

// Resolver returns the policy in force for an organization: its stored override,
// or the defaults it was built with.
type Resolver struct {
	rules    setting.RuleRepository
	defaults setting.PolicyConfig
}

func NewResolver(rules setting.RuleRepository, defaults setting.PolicyConfig) *Resolver {
	return &Resolver{rules: rules, defaults: defaults}
}

func (r *Resolver) Defaults() setting.PolicyConfig {
	return r.defaults
}

func (r *Resolver) Resolve(ctx context.Context, organizationID string) (setting.PolicyConfig, error) {
	rule, err := r.rules.GetByOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, setting.ErrRuleNotFound) {
			return r.defaults, nil
		}
		return setting.PolicyConfig{}, fmt.Errorf("failed to load detection rule: %w", err)
	}
	return rule.PolicyConfig, nil
}
