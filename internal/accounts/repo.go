package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prazodigital/prazos-backend/internal/deadline"
	"github.com/prazodigital/prazos-backend/pkg/db/models"
	"github.com/prazodigital/prazos-backend/pkg/enums"
)

// Repository exposes the payable-account reads the scanner needs.
type Repository interface {
	ListDueWithin(ctx context.Context, tenantID uuid.UUID, today time.Time, lookaheadDays int) ([]models.Account, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an accounts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListDueWithin returns the tenant's unsettled accounts due on or before
// today+lookahead. Already-overdue rows match the same predicate, so the one
// query feeds both the upcoming and overdue classifications.
func (r *repositoryImpl) ListDueWithin(ctx context.Context, tenantID uuid.UUID, today time.Time, lookaheadDays int) ([]models.Account, error) {
	horizon := deadline.DayOf(today).AddDate(0, 0, lookaheadDays)

	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("status IN ?", enums.ScannableAccountStatuses()).
		Where("due_date <= ?", horizon).
		Order("due_date ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
