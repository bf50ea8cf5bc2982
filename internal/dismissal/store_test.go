package dismissal

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	values map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeKV) DismissalKey(clientID string) string {
	return "prazos:dismissal:" + clientID
}

func storeAt(t *testing.T, kv KV, day string) *Store {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	store, err := NewStore(StoreParams{KV: kv, Now: func() time.Time { return parsed }})
	require.NoError(t, err)
	return store
}

func TestDismiss_HoldsForTheSameDay(t *testing.T) {
	kv := newFakeKV()
	store := storeAt(t, kv, "2024-03-10")

	require.NoError(t, store.Dismiss(context.Background(), "user-1", KindOverdue))

	state, err := store.Read(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, state.Overdue)
	require.False(t, state.Upcoming)
}

func TestRead_NextDayResetsWithoutExplicitReset(t *testing.T) {
	kv := newFakeKV()
	require.NoError(t, storeAt(t, kv, "2024-03-10").Dismiss(context.Background(), "user-1", KindOverdue))

	state, err := storeAt(t, kv, "2024-03-11").Read(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, state.Overdue)
	require.False(t, state.Upcoming)

	// The stale record is ignored, not deleted.
	require.Len(t, kv.values, 1)
}

func TestDismiss_NewDayDiscardsStaleFlags(t *testing.T) {
	kv := newFakeKV()
	require.NoError(t, storeAt(t, kv, "2024-03-10").Dismiss(context.Background(), "user-1", KindOverdue))

	nextDay := storeAt(t, kv, "2024-03-11")
	require.NoError(t, nextDay.Dismiss(context.Background(), "user-1", KindUpcoming))

	state, err := nextDay.Read(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, state.Overdue)
	require.True(t, state.Upcoming)
}

func TestDismiss_BothKindsAccumulateWithinTheDay(t *testing.T) {
	kv := newFakeKV()
	store := storeAt(t, kv, "2024-03-10")

	require.NoError(t, store.Dismiss(context.Background(), "user-1", KindOverdue))
	require.NoError(t, store.Dismiss(context.Background(), "user-1", KindUpcoming))

	state, err := store.Read(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, state.Overdue)
	require.True(t, state.Upcoming)
}

func TestDismiss_UnknownKind(t *testing.T) {
	store := storeAt(t, newFakeKV(), "2024-03-10")
	require.Error(t, store.Dismiss(context.Background(), "user-1", Kind("banner")))
}

func TestReset_ClearsState(t *testing.T) {
	kv := newFakeKV()
	store := storeAt(t, kv, "2024-03-10")

	require.NoError(t, store.Dismiss(context.Background(), "user-1", KindOverdue))
	require.NoError(t, store.Reset(context.Background(), "user-1"))

	state, err := store.Read(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, state.Overdue)
	require.Empty(t, kv.values)
}

func TestRead_IsolatedPerClient(t *testing.T) {
	kv := newFakeKV()
	store := storeAt(t, kv, "2024-03-10")

	require.NoError(t, store.Dismiss(context.Background(), "user-1", KindOverdue))

	state, err := store.Read(context.Background(), "user-2")
	require.NoError(t, err)
	require.False(t, state.Overdue)
}
