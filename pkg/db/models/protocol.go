package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/prazodigital/prazos-backend/pkg/enums"
)

// Protocol is a customer service request tracked against per-service deadlines.
type Protocol struct {
	ID       uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID uuid.UUID            `gorm:"column:tenant_id;type:uuid;not null;index"`
	Number   string               `gorm:"column:number;type:text;not null"`
	Status   enums.ProtocolStatus `gorm:"column:status;type:protocol_status;not null"`

	// Free-text service labels resolved against ServiceRule names at scan time.
	Services []string `gorm:"column:services;type:jsonb;serializer:json"`

	Demand    string `gorm:"column:demand;type:text"`
	Requester string `gorm:"column:requester;type:text"`
	Document  string `gorm:"column:document;type:text"`
	Phone     string `gorm:"column:phone;type:text"`
	Email     string `gorm:"column:email;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
