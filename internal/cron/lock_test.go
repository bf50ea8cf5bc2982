package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeLockStore struct {
	values map[string]string
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{values: map[string]string{}}
}

func (f *fakeLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeLockStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeLockStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireAndRelease(t *testing.T) {
	store := newFakeLockStore()
	lock, err := NewRedisLock(store, "prazos:lock:worker", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("Acquire: ok=%v err=%v", ok, err)
	}
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if len(store.values) != 0 {
		t.Fatal("lock key must be deleted on release")
	}
}

func TestRedisLockSecondAcquireFails(t *testing.T) {
	store := newFakeLockStore()
	first, _ := NewRedisLock(store, "prazos:lock:worker", time.Minute)
	second, _ := NewRedisLock(store, "prazos:lock:worker", time.Minute)

	if ok, _ := first.Acquire(context.Background()); !ok {
		t.Fatal("first acquire must succeed")
	}
	if ok, _ := second.Acquire(context.Background()); ok {
		t.Fatal("second acquire must fail while the lock is held")
	}
}

func TestRedisLockReleaseLeavesForeignOwner(t *testing.T) {
	store := newFakeLockStore()
	lock, _ := NewRedisLock(store, "prazos:lock:worker", time.Minute)

	if ok, _ := lock.Acquire(context.Background()); !ok {
		t.Fatal("acquire must succeed")
	}
	// Simulate the TTL expiring and another instance taking over.
	store.values["prazos:lock:worker"] = "someone-else"

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if store.values["prazos:lock:worker"] != "someone-else" {
		t.Fatal("release must not delete a lock owned by another instance")
	}
}

func TestRedisLockReleaseWithoutAcquireIsNoOp(t *testing.T) {
	lock, _ := NewRedisLock(newFakeLockStore(), "prazos:lock:worker", time.Minute)
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
}
