package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/pkg/postgres"
)

// RuleRepo implements port.RuleRepository. The rule configuration is a
// singleton row plus an ordered set of interest tiers.
type RuleRepo struct {
	q postgres.Querier
}

// NewRuleRepo creates a PostgreSQL-backed rule repository.
func NewRuleRepo(q postgres.Querier) *RuleRepo {
	return &RuleRepo{q: q}
}

// GetRules loads the active rule configuration. A missing row is a
// ConfigurationError: callers must fail closed, never default.
func (r *RuleRepo) GetRules(ctx context.Context) (model.RuleConfiguration, error) {
	var rules model.RuleConfiguration

	err := r.q.QueryRow(ctx,
		`SELECT min_down_payment_percent FROM rule_configurations ORDER BY created_at DESC LIMIT 1`,
	).Scan(&rules.MinDownPaymentPercent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RuleConfiguration{}, apperror.Configuration("rule configuration not found")
		}
		return model.RuleConfiguration{}, fmt.Errorf("scan rule configuration: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT min_price, max_price, rate_percent FROM interest_tiers ORDER BY min_price`,
	)
	if err != nil {
		return model.RuleConfiguration{}, fmt.Errorf("query interest tiers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tier model.InterestTier
		if err := rows.Scan(&tier.MinPrice, &tier.MaxPrice, &tier.RatePercent); err != nil {
			return model.RuleConfiguration{}, fmt.Errorf("scan interest tier: %w", err)
		}
		rules.Tiers = append(rules.Tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return model.RuleConfiguration{}, fmt.Errorf("iterate interest tiers: %w", err)
	}
	return rules, nil
}
