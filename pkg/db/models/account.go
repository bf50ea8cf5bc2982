package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prazodigital/prazos-backend/pkg/enums"
)

// Account is a payable with a hard due date. Paid accounts are terminal.
type Account struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID    uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null;index"`
	Description string              `gorm:"column:description;type:text;not null"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	DueDate     time.Time           `gorm:"column:due_date;type:date;not null"`
	Status      enums.AccountStatus `gorm:"column:status;type:account_status;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
