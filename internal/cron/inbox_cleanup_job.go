package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/prazodigital/prazos-backend/pkg/logger"
)

const defaultRetentionDays = 30

type inboxCleanupStore interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// InboxCleanupJobParams configure the notification retention job.
type InboxCleanupJobParams struct {
	Logger        *logger.Logger
	Store         inboxCleanupStore
	RetentionDays int
}

// NewInboxCleanupJob builds the job that prunes read inbox rows past the
// retention window.
func NewInboxCleanupJob(params InboxCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("notifications store required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultRetentionDays
	}
	return &inboxCleanupJob{
		logg:      params.Logger,
		store:     params.Store,
		retention: retention,
		now:       time.Now,
	}, nil
}

type inboxCleanupJob struct {
	logg      *logger.Logger
	store     inboxCleanupStore
	retention int
	now       func() time.Time
}

func (j *inboxCleanupJob) Name() string { return "inbox-cleanup" }

func (j *inboxCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.retention)
	deleted, err := j.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("inbox cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "inbox cleanup complete")
	return nil
}
