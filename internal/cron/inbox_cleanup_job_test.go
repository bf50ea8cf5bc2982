package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prazodigital/prazos-backend/pkg/logger"
)

type fakeCleanupStore struct {
	lastCutoff time.Time
	deleted    int64
	calls      int
	err        error
}

func (f *fakeCleanupStore) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	f.calls++
	f.lastCutoff = before
	return f.deleted, f.err
}

func newCleanupJob(t *testing.T, store *fakeCleanupStore, retention int) *inboxCleanupJob {
	t.Helper()
	jobIface, err := NewInboxCleanupJob(InboxCleanupJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		Store:         store,
		RetentionDays: retention,
	})
	if err != nil {
		t.Fatalf("NewInboxCleanupJob: %v", err)
	}
	job, ok := jobIface.(*inboxCleanupJob)
	if !ok {
		t.Fatalf("expected inboxCleanupJob, got %T", jobIface)
	}
	return job
}

func TestInboxCleanupJobUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	store := &fakeCleanupStore{deleted: 12}
	job := newCleanupJob(t, store, 0)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expected := now.AddDate(0, 0, -defaultRetentionDays)
	if !store.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, store.lastCutoff)
	}
	if store.calls != 1 {
		t.Fatalf("expected one delete call, got %d", store.calls)
	}
}

func TestInboxCleanupJobPropagatesErrors(t *testing.T) {
	store := &fakeCleanupStore{err: errors.New("boom")}
	job := newCleanupJob(t, store, 15)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
