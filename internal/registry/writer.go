package registry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prazodigital/prazos-backend/pkg/db/models"
)

// Writer covers the one administrative mutation exposed over HTTP: turning a
// provisioned tenant on. Everything else about tenants is managed elsewhere.
type Writer interface {
	Activate(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

type writerImpl struct {
	db *gorm.DB
}

// NewWriter returns a registry writer bound to the provided database.
func NewWriter(db *gorm.DB) Writer {
	return &writerImpl{db: db}
}

// Activate flips the tenant's active flag. Activating an already-active
// tenant is a no-op that still returns the tenant.
func (w *writerImpl) Activate(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := w.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if tenant.Active {
		return &tenant, nil
	}
	if err := w.db.WithContext(ctx).Model(&tenant).Update("active", true).Error; err != nil {
		return nil, err
	}
	tenant.Active = true
	return &tenant, nil
}
