package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is a notary office (cartorio) whose records and notification
// targets are isolated from every other tenant.
type Tenant struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"column:name;type:text;not null"`

	// Per-channel opt-in plus the delivery target for each domain.
	NotifyProtocolsEnabled bool   `gorm:"column:notify_protocols_enabled;not null;default:false"`
	ProtocolPhone          string `gorm:"column:protocol_phone;type:text"`
	NotifyAccountsEnabled  bool   `gorm:"column:notify_accounts_enabled;not null;default:false"`
	AccountPhone           string `gorm:"column:account_phone;type:text"`

	// Opaque messaging-gateway credentials, passed through to webhook payloads unmodified.
	GatewayTenantID   string `gorm:"column:gateway_tenant_id;type:text"`
	GatewayExternalID string `gorm:"column:gateway_external_id;type:text"`
	GatewayAPIToken   string `gorm:"column:gateway_api_token;type:text"`
	GatewayChannelID  string `gorm:"column:gateway_channel_id;type:text"`

	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
