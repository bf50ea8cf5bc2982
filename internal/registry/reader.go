package registry

import (
	"context"

	"gorm.io/gorm"

	"github.com/prazodigital/prazos-backend/pkg/db/models"
	"github.com/prazodigital/prazos-backend/pkg/enums"
)

// Reader exposes the tenant registry to the deadline scanners. The core never
// writes tenants; administration happens elsewhere.
type Reader interface {
	ListEnabled(ctx context.Context, channel enums.NotifyChannel) ([]models.Tenant, error)
	FindByID(ctx context.Context, id string) (*models.Tenant, error)
}

type readerImpl struct {
	db *gorm.DB
}

// NewReader returns a registry reader bound to the provided database.
func NewReader(db *gorm.DB) Reader {
	return &readerImpl{db: db}
}

// ListEnabled returns active tenants opted into the given channel that also
// carry a non-empty delivery target for it. Tenants without a target cannot
// receive webhook events and are excluded at the query level.
func (r *readerImpl) ListEnabled(ctx context.Context, channel enums.NotifyChannel) ([]models.Tenant, error) {
	query := r.db.WithContext(ctx).Model(&models.Tenant{}).Where("active = ?", true)

	switch channel {
	case enums.NotifyChannelAccounts:
		query = query.Where("notify_accounts_enabled = ?", true).
			Where("account_phone IS NOT NULL AND account_phone <> ''")
	default:
		query = query.Where("notify_protocols_enabled = ?", true).
			Where("protocol_phone IS NOT NULL AND protocol_phone <> ''")
	}

	var tenants []models.Tenant
	if err := query.Order("created_at ASC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *readerImpl) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}
