package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

// fakeClock returns a Clock pinned to a mutable instant.
func fakeClock(at *time.Time) Clock {
	return func() time.Time { return *at }
}

func TestStore_CreateAndGet(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(DefaultTTL, fakeClock(&now))

	id := store.Create()
	require.NotEmpty(t, id)

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, domain.SessionStatusPending, sess.Status)
	assert.Equal(t, now, sess.CreatedAt)
	assert.Empty(t, sess.Docs)
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore(DefaultTTL, nil)

	_, err := store.Get("nope")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_SetReady(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(DefaultTTL, fakeClock(&now))

	id := store.Create()

	// The crawl takes a while; retention restarts at readiness.
	now = now.Add(5 * time.Minute)
	docs := []*domain.Document{{ID: "d", URL: "https://example.com", Title: "T"}}
	require.NoError(t, store.SetReady(id, docs))

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusReady, sess.Status)
	assert.Equal(t, now, sess.CreatedAt)
	require.Len(t, sess.Docs, 1)
	assert.Equal(t, "https://example.com", sess.Docs[0].URL)
}

func TestStore_SetReadyUnknown(t *testing.T) {
	store := NewStore(DefaultTTL, nil)

	err := store.SetReady("nope", nil)

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(DefaultTTL, nil)
	id := store.Create()

	store.Delete(id)
	store.Delete("already-gone")

	_, err := store.Get(id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestStore_Evict(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(30*time.Minute, fakeClock(&now))

	old := store.Create()
	now = now.Add(20 * time.Minute)
	fresh := store.Create()

	// 31 minutes after the first session, 11 after the second.
	evicted := store.Evict(now.Add(11 * time.Minute))

	assert.Equal(t, 1, evicted)
	_, err := store.Get(old)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.Get(fresh)
	assert.NoError(t, err)
}

func TestStore_EvictExactBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(30*time.Minute, fakeClock(&now))
	id := store.Create()

	// Exactly at the TTL a session survives; eviction needs strictly older.
	assert.Equal(t, 0, store.Evict(now.Add(30*time.Minute)))
	_, err := store.Get(id)
	assert.NoError(t, err)

	assert.Equal(t, 1, store.Evict(now.Add(30*time.Minute+time.Nanosecond)))
}
