package protocols

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prazodigital/prazos-backend/pkg/db/models"
	"github.com/prazodigital/prazos-backend/pkg/enums"
)

// Repository exposes the protocol and service-rule reads the scanner needs.
type Repository interface {
	ListOpenWithServices(ctx context.Context, tenantID uuid.UUID) ([]models.Protocol, error)
	ListActiveRules(ctx context.Context, tenantID uuid.UUID) ([]models.ServiceRule, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a protocols repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListOpenWithServices returns the tenant's non-terminal protocols. Protocols
// without service labels cannot match a rule, so they are filtered out here
// rather than in the scan loop.
func (r *repositoryImpl) ListOpenWithServices(ctx context.Context, tenantID uuid.UUID) ([]models.Protocol, error) {
	var protocols []models.Protocol
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("status <> ?", enums.ProtocolStatusDone).
		Order("created_at ASC").
		Find(&protocols).Error
	if err != nil {
		return nil, err
	}

	filtered := protocols[:0]
	for _, p := range protocols {
		if len(p.Services) > 0 {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (r *repositoryImpl) ListActiveRules(ctx context.Context, tenantID uuid.UUID) ([]models.ServiceRule, error) {
	var rules []models.ServiceRule
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// NormalizeName lowercases and trims a service label for rule lookup.
// Protocols reference rules by free-text label, so this is the only join key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RuleIndex builds a normalized-name lookup over the tenant's active rules.
// Rules with non-positive lead times are malformed and never indexed.
func RuleIndex(rules []models.ServiceRule) map[string]models.ServiceRule {
	index := make(map[string]models.ServiceRule, len(rules))
	for _, rule := range rules {
		if rule.ExecutionLeadDays <= 0 || rule.NotifyBeforeDays <= 0 {
			continue
		}
		index[NormalizeName(rule.Name)] = rule
	}
	return index
}
