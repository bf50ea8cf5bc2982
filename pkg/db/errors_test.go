package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := errors.New(`ERROR: duplicate key value violates unique constraint "idx_notifications_recipient_unread" (SQLSTATE 23505)`)
	sqliteErr := errors.New("UNIQUE constraint failed: notifications.recipient_id, notifications.source_id, notifications.type")

	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected postgres duplicate key to classify")
	}
	if !IsUniqueViolation(pgErr, "idx_notifications_recipient_unread") {
		t.Fatal("expected named constraint to classify")
	}
	if IsUniqueViolation(pgErr, "some_other_constraint") {
		t.Fatal("expected mismatched constraint name to be rejected")
	}
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("expected sqlite unique failure to classify")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("expected unrelated error to be rejected")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("expected nil to be rejected")
	}
}
