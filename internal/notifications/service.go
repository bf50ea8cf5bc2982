package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prazodigital/prazos-backend/pkg/db/models"
	"github.com/prazodigital/prazos-backend/pkg/enums"
	"github.com/prazodigital/prazos-backend/pkg/errors"
	"github.com/prazodigital/prazos-backend/pkg/logger"
	"github.com/prazodigital/prazos-backend/pkg/pagination"
)

// CreateParams is the input for one inbox row.
type CreateParams struct {
	RecipientID uuid.UUID
	TenantID    uuid.UUID
	Type        enums.NotificationType
	Priority    enums.NotificationPriority
	Title       string
	Message     string
	SourceID    *uuid.UUID
	SourceKind  *string
	DueDate     *time.Time
	Link        *string
	Metadata    map[string]any
}

// ListParams selects one inbox page.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult is one inbox page plus the derived unread count.
type ListResult struct {
	Items       []models.Notification
	NextCursor  string
	UnreadCount int64
}

// Service is the inbox ledger. Deadline-type rows are de-duplicated on
// create; everything else inserts unconditionally.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Notification, bool, error)
	List(ctx context.Context, recipientID uuid.UUID, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, recipientID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, recipientID, id uuid.UUID) error
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type serviceImpl struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires the inbox ledger service.
func NewService(repo Repository, logg *logger.Logger) Service {
	return &serviceImpl{repo: repo, logg: logg}
}

// Create inserts a new inbox row. For deadline notices with a source item the
// insert is conditional: if an unread row for the same (recipient, source,
// type) already exists, that row is returned untouched and the second return
// value is false.
func (s *serviceImpl) Create(ctx context.Context, params CreateParams) (*models.Notification, bool, error) {
	if err := validateCreate(params); err != nil {
		return nil, false, err
	}

	row := &models.Notification{
		RecipientID: params.RecipientID,
		TenantID:    params.TenantID,
		Type:        params.Type,
		Priority:    params.Priority,
		Title:       params.Title,
		Message:     params.Message,
		SourceID:    params.SourceID,
		SourceKind:  params.SourceKind,
		DueDate:     params.DueDate,
		Link:        params.Link,
		Metadata:    params.Metadata,
	}

	if params.Type == enums.NotificationTypeDeadline && params.SourceID != nil {
		created, err := s.repo.CreateIfNoUnread(ctx, row)
		if err != nil {
			return nil, false, ledgerErr(err)
		}
		if !created {
			existing, err := s.repo.FindUnreadBySource(ctx, params.RecipientID, *params.SourceID, params.Type)
			if err != nil {
				return nil, false, ledgerErr(err)
			}
			return existing, false, nil
		}
		return row, true, nil
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, false, ledgerErr(err)
	}
	return row, true, nil
}

func (s *serviceImpl) List(ctx context.Context, recipientID uuid.UUID, params ListParams) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByRecipient(ctx, recipientID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, ledgerErr(err)
	}

	result := &ListResult{Items: rows}
	if len(rows) > limit {
		result.Items = rows[:limit]
		last := result.Items[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, ledgerErr(err)
	}
	result.UnreadCount = unread
	return result, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	affected, err := s.repo.MarkRead(ctx, recipientID, id)
	if err != nil {
		return ledgerErr(err)
	}
	if affected == 0 {
		return errors.New(errors.CodeNotFound, "notification not found or already read")
	}
	return nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	if _, err := s.repo.MarkAllRead(ctx, recipientID); err != nil {
		return ledgerErr(err)
	}
	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, recipientID, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, recipientID, id)
	if err != nil {
		return ledgerErr(err)
	}
	if affected == 0 {
		return errors.New(errors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *serviceImpl) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, ledgerErr(err)
	}
	return count, nil
}

func validateCreate(params CreateParams) error {
	if params.RecipientID == uuid.Nil {
		return errors.New(errors.CodeValidation, "recipient is required")
	}
	if params.TenantID == uuid.Nil {
		return errors.New(errors.CodeValidation, "tenant is required")
	}
	if !params.Type.IsValid() {
		return errors.New(errors.CodeValidation, "invalid notification type")
	}
	if params.Priority != "" && !params.Priority.IsValid() {
		return errors.New(errors.CodeValidation, "invalid notification priority")
	}
	if params.Title == "" || params.Message == "" {
		return errors.New(errors.CodeValidation, "title and message are required")
	}
	return nil
}

func ledgerErr(err error) error {
	if err == gorm.ErrRecordNotFound {
		return errors.Wrap(errors.CodeNotFound, err, "notification not found")
	}
	return errors.Wrap(errors.CodeDependency, err, "notification ledger unavailable")
}
