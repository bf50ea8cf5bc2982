// Package dismissal persists day-scoped suppression of the deadline summary
// banners. A dismissal only holds for the calendar day it was made on; a
// stale record is ignored on read and overwritten on the next dismiss.
package dismissal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Kind names one of the two dismissible banners.
type Kind string

const (
	KindOverdue  Kind = "overdue"
	KindUpcoming Kind = "upcoming"
)

// IsValid reports whether the kind is one of the known banners.
func (k Kind) IsValid() bool {
	return k == KindOverdue || k == KindUpcoming
}

// State is the visible dismissal state for one client on one day.
type State struct {
	Overdue  bool `json:"overdue"`
	Upcoming bool `json:"upcoming"`
}

type record struct {
	Date     string `json:"date"`
	Overdue  bool   `json:"overdue"`
	Upcoming bool   `json:"upcoming"`
}

// Records older than this are unreadable anyway, so let the store drop them.
const recordTTL = 48 * time.Hour

const dateLayout = "2006-01-02"

// KV is the key-value surface the store needs. Satisfied by redis.Client.
type KV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DismissalKey(clientID string) string
}

// Store keeps per-client dismissal records keyed by calendar day.
type Store struct {
	kv  KV
	now func() time.Time
}

// StoreParams configures the store. Now is optional.
type StoreParams struct {
	KV  KV
	Now func() time.Time
}

// NewStore wires a dismissal store.
func NewStore(params StoreParams) (*Store, error) {
	if params.KV == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Store{kv: params.KV, now: now}, nil
}

// Dismiss sets the flag for the given banner, stamped with today's date.
// Dismissing on a new day discards whatever the stale record said.
func (s *Store) Dismiss(ctx context.Context, clientID string, kind Kind) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown dismissal kind %q", kind)
	}

	today := s.today()
	state, err := s.Read(ctx, clientID)
	if err != nil {
		return err
	}

	rec := record{Date: today, Overdue: state.Overdue, Upcoming: state.Upcoming}
	switch kind {
	case KindOverdue:
		rec.Overdue = true
	case KindUpcoming:
		rec.Upcoming = true
	}

	encoded, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.DismissalKey(clientID), string(encoded), recordTTL)
}

// Read returns today's dismissal state. A missing, malformed, or stale record
// reads as nothing dismissed; the stale record itself is left in place.
func (s *Store) Read(ctx context.Context, clientID string) (State, error) {
	raw, err := s.kv.Get(ctx, s.kv.DismissalKey(clientID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, nil
		}
		return State{}, err
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return State{}, nil
	}
	if rec.Date != s.today() {
		return State{}, nil
	}
	return State{Overdue: rec.Overdue, Upcoming: rec.Upcoming}, nil
}

// Reset clears the client's record unconditionally.
func (s *Store) Reset(ctx context.Context, clientID string) error {
	return s.kv.Del(ctx, s.kv.DismissalKey(clientID))
}

func (s *Store) today() string {
	return s.now().Format(dateLayout)
}
