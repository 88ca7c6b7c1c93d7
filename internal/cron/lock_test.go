package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memEntry struct {
	value string
	ttl   time.Duration
}

type memStore struct {
	data   map[string]memEntry
	getErr error
	setErr error
	delErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]memEntry{}}
}

func (m *memStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if m.setErr != nil {
		return false, m.setErr
	}
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = memEntry{value: toString(value), ttl: ttl}
	return true, nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	entry, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return entry.value, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	if m.delErr != nil {
		return m.delErr
	}
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memStore) DelIfValue(_ context.Context, key, value string) (bool, error) {
	if m.delErr != nil {
		return false, m.delErr
	}
	entry, ok := m.data[key]
	if !ok || entry.value != value {
		return false, nil
	}
	delete(m.data, key)
	return true, nil
}

func (m *memStore) MarkerKey(name, period string) string {
	return "karaoke:marker:" + name + ":" + period
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func TestRedisLockAcquireRelease(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	lock, err := NewRedisLock(store, "karaoke:lock:cron", 0)
	require.NoError(t, err)

	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, defaultLockTTL, store.data["karaoke:lock:cron"].ttl)

	other, err := NewRedisLock(store, "karaoke:lock:cron", time.Minute)
	require.NoError(t, err)
	ok, err = other.Acquire(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, other.Release(ctx))
	require.Contains(t, store.data, "karaoke:lock:cron", "non-owner must not release")

	require.NoError(t, lock.Release(ctx))
	require.NotContains(t, store.data, "karaoke:lock:cron")
	require.NoError(t, lock.Release(ctx))
}

func TestRedisLockReleaseLeavesForeignOwner(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	lock, err := NewRedisLock(store, "k", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// lock expired and another worker took it over
	store.data["k"] = memEntry{value: "someone-else"}
	require.NoError(t, lock.Release(ctx))
	require.Equal(t, "someone-else", store.data["k"].value)
}

func TestRedisLockErrors(t *testing.T) {
	_, err := NewRedisLock(nil, "k", time.Minute)
	require.Error(t, err)
	_, err = NewRedisLock(newMemStore(), "", time.Minute)
	require.Error(t, err)

	store := newMemStore()
	store.setErr = errors.New("unreachable")
	lock, err := NewRedisLock(store, "k", time.Minute)
	require.NoError(t, err)
	_, err = lock.Acquire(context.Background())
	require.ErrorIs(t, err, store.setErr)
}

func TestRedisLockReleaseErrorClearsOwner(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	lock, err := NewRedisLock(store, "k", time.Minute)
	require.NoError(t, err)
	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	store.delErr = errors.New("connection reset")
	require.ErrorIs(t, lock.Release(ctx), store.delErr)
	require.NoError(t, lock.Release(ctx), "a second release is a no-op")
}
