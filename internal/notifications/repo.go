package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prazodigital/prazos-backend/pkg/db"
	"github.com/prazodigital/prazos-backend/pkg/db/models"
	"github.com/prazodigital/prazos-backend/pkg/enums"
	"github.com/prazodigital/prazos-backend/pkg/pagination"
)

// Repository persists inbox rows. Writes are always scoped to the recipient
// so one user can never touch another user's rows.
type Repository interface {
	Create(ctx context.Context, row *models.Notification) error
	CreateIfNoUnread(ctx context.Context, row *models.Notification) (bool, error)
	FindUnreadBySource(ctx context.Context, recipientID uuid.UUID, sourceID uuid.UUID, kind enums.NotificationType) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Notification, error)
	MarkRead(ctx context.Context, recipientID, id uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Delete(ctx context.Context, recipientID, id uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, row *models.Notification) error {
	prepare(row)
	return r.db.WithContext(ctx).Create(row).Error
}

// CreateIfNoUnread inserts the row unless an unread row already exists for
// the same (recipient, source item, type). The guard is the partial unique
// index idx_notifications_recipient_unread: concurrent inserts conflict on
// the index itself, so two racing scan cycles cannot both commit a row.
// Returns false when the row was dropped as a duplicate.
func (r *repositoryImpl) CreateIfNoUnread(ctx context.Context, row *models.Notification) (bool, error) {
	prepare(row)

	var metadata any
	if row.Metadata != nil {
		encoded, err := json.Marshal(row.Metadata)
		if err != nil {
			return false, err
		}
		metadata = string(encoded)
	}

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO notifications
			(id, recipient_id, tenant_id, type, priority, title, message,
			 source_id, source_kind, due_date, link, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (recipient_id, source_id, type) WHERE read_at IS NULL
		DO NOTHING`,
		row.ID, row.RecipientID, row.TenantID, row.Type, row.Priority,
		row.Title, row.Message, row.SourceID, row.SourceKind,
		row.DueDate, row.Link, metadata, row.CreatedAt,
	)
	if result.Error != nil {
		// A violation that still surfaces, like a retried insert reusing
		// its id against the primary key, means the row is already there.
		if db.IsUniqueViolation(result.Error, "") {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repositoryImpl) FindUnreadBySource(ctx context.Context, recipientID uuid.UUID, sourceID uuid.UUID, kind enums.NotificationType) (*models.Notification, error) {
	var row models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND source_id = ? AND type = ? AND read_at IS NULL", recipientID, sourceID, kind).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByRecipient returns rows newest-first using a (created_at, id) cursor.
func (r *repositoryImpl) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) MarkRead(ctx context.Context, recipientID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", id, recipientID).
		Update("read_at", time.Now().UTC())
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", time.Now().UTC())
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) Delete(ctx context.Context, recipientID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	return count, err
}

// DeleteOlderThan removes read rows created before the cutoff. Unread rows are
// kept regardless of age; only the recipient can make them disappear.
func (r *repositoryImpl) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ? AND read_at IS NOT NULL", before).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func prepare(row *models.Notification) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.Priority == "" {
		row.Priority = enums.NotificationPriorityNormal
	}
}
