package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/prazodigital/prazos-backend/pkg/enums"
)

// Notification stores in-app inbox rows scoped to a recipient user.
type Notification struct {
	ID          uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientID uuid.UUID                  `gorm:"column:recipient_id;type:uuid;not null;index;uniqueIndex:idx_notifications_recipient_unread,priority:1,where:read_at IS NULL"`
	TenantID    uuid.UUID                  `gorm:"column:tenant_id;type:uuid;not null"`
	Type        enums.NotificationType     `gorm:"column:type;type:notification_type;not null;uniqueIndex:idx_notifications_recipient_unread,priority:3"`
	Priority    enums.NotificationPriority `gorm:"column:priority;type:notification_priority;not null;default:'normal'"`
	Title       string                     `gorm:"column:title;type:text;not null"`
	Message     string                     `gorm:"column:message;type:text;not null"`

	// Optional reference to the record that produced this row.
	SourceID   *uuid.UUID `gorm:"column:source_id;type:uuid;uniqueIndex:idx_notifications_recipient_unread,priority:2"`
	SourceKind *string    `gorm:"column:source_kind;type:text"`

	DueDate  *time.Time     `gorm:"column:due_date;type:timestamptz"`
	Link     *string        `gorm:"column:link;type:text"`
	Metadata map[string]any `gorm:"column:metadata;type:jsonb;serializer:json"`

	ReadAt    *time.Time `gorm:"column:read_at;type:timestamptz"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// IsRead reports whether the recipient has acknowledged the row.
func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}
