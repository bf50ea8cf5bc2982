package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceRule defines per-tenant deadline arithmetic for a named service.
// Protocols reference rules by free-text label, matched case-insensitively.
type ServiceRule struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	Name     string    `gorm:"column:name;type:text;not null"`

	// Lead times are positive day counts; rows violating that are skipped upstream.
	ExecutionLeadDays int `gorm:"column:execution_lead_days;not null"`
	NotifyBeforeDays  int `gorm:"column:notify_before_days;not null"`

	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
