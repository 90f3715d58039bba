package interview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveSession(id string) *InterviewSession {
	return &InterviewSession{
		SessionID:   id,
		FounderName: "Sarah Johnson",
		StartupName: "EcoTech Solutions",
		Status:      StatusActive,
		Responses:   []ResponseRecord{},
		StartedAt:   time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore_PutAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := newActiveSession("sess-1")
	require.NoError(t, store.Put(ctx, session))
	assert.Equal(t, int64(1), session.Revision)

	loaded, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", loaded.FounderName)
	assert.Equal(t, int64(1), loaded.Revision)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_RevisionConflict(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := newActiveSession("sess-1")
	require.NoError(t, store.Put(ctx, session))

	// A writer holding a stale revision must not commit.
	stale := newActiveSession("sess-1")
	stale.Revision = 0
	assert.ErrorIs(t, store.Put(ctx, stale), ErrRevisionConflict)

	// The fresh copy commits and bumps the revision.
	loaded, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	loaded.CurrentQuestionIndex = 1
	require.NoError(t, store.Put(ctx, loaded))
	assert.Equal(t, int64(2), loaded.Revision)
}

func TestMemoryStore_NewSessionMustHaveZeroRevision(t *testing.T) {
	store := NewMemoryStore()

	session := newActiveSession("sess-1")
	session.Revision = 5
	assert.ErrorIs(t, store.Put(context.Background(), session), ErrRevisionConflict)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := newActiveSession("sess-1")
	require.NoError(t, store.Put(ctx, session))

	first, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	first.FounderName = "mutated"

	second, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", second.FounderName)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := newActiveSession("sess-1")
	require.NoError(t, store.Put(ctx, session))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())

	// Deleting an absent session is not an error.
	assert.NoError(t, store.Delete(ctx, "sess-1"))
}
