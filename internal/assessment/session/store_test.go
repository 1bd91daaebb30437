package session

import (
	"context"
	"testing"
	"time"

	"academy-api/internal/assessment/collector"
	"academy-api/internal/common/config"
	"academy-api/internal/common/database"
	"academy-api/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	store := NewStore(rdb, logger.NewTestLogger(t), time.Hour, 24*time.Hour)
	return store, mr
}

// ==========================
// Attempt Persistence Tests
// ==========================

func TestStore_AttemptRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	attempt := collector.NewAttempt("attempt-1", "hero-cta", 21)
	attempt.Answers[0] = "22"
	attempt.Contact = collector.Contact{FirstName: "Amelia", Email: "amelia@example.com"}

	require.NoError(t, store.SaveAttempt(ctx, attempt))

	loaded, err := store.GetAttempt(ctx, "attempt-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, attempt.ID, loaded.ID)
	assert.Equal(t, attempt.Source, loaded.Source)
	assert.Equal(t, attempt.State, loaded.State)
	assert.Equal(t, attempt.Answers, loaded.Answers)
	assert.Equal(t, attempt.Contact, loaded.Contact)
}

func TestStore_MissingAttemptIsNil(t *testing.T) {
	store, _ := newTestStore(t)

	attempt, err := store.GetAttempt(context.Background(), "no-such-attempt")
	require.NoError(t, err)
	assert.Nil(t, attempt)
}

func TestStore_MalformedAttemptIsDiscarded(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("attempt:broken", "{not json"))

	attempt, err := store.GetAttempt(ctx, "broken")
	require.NoError(t, err)
	assert.Nil(t, attempt)
	assert.False(t, mr.Exists("attempt:broken"), "malformed payload is deleted")
}

func TestStore_DeleteAttempt(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAttempt(ctx, collector.NewAttempt("a1", "", 3)))
	require.True(t, mr.Exists("attempt:a1"))

	require.NoError(t, store.DeleteAttempt(ctx, "a1"))
	assert.False(t, mr.Exists("attempt:a1"))
}

func TestStore_AttemptTTLRefreshedOnSave(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	attempt := collector.NewAttempt("a1", "", 3)
	require.NoError(t, store.SaveAttempt(ctx, attempt))
	assert.Equal(t, time.Hour, mr.TTL("attempt:a1"))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.SaveAttempt(ctx, attempt))
	assert.Equal(t, time.Hour, mr.TTL("attempt:a1"))
}

func TestStore_AttemptExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAttempt(ctx, collector.NewAttempt("a1", "", 3)))
	mr.FastForward(2 * time.Hour)

	attempt, err := store.GetAttempt(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, attempt)
}

// ==========================
// Prefill and Flag Tests
// ==========================

func TestStore_PrefillRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	prefill := Prefill{FirstName: "Amelia", Email: "amelia@example.com"}
	require.NoError(t, store.SavePrefill(ctx, "sess-1", prefill))

	loaded, err := store.GetPrefill(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, prefill, loaded)
}

func TestStore_MissingPrefillIsZeroValue(t *testing.T) {
	store, _ := newTestStore(t)

	prefill, err := store.GetPrefill(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.Equal(t, Prefill{}, prefill)
}

func TestStore_MalformedPrefillIsZeroValue(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, mr.Set("prefill:sess-1", "not json at all"))

	prefill, err := store.GetPrefill(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, Prefill{}, prefill)
}

func TestStore_Flags(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	has, err := store.HasFlag(ctx, "sess-1", FlagAssessmentCompleted)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.SetFlag(ctx, "sess-1", FlagAssessmentCompleted))

	has, err = store.HasFlag(ctx, "sess-1", FlagAssessmentCompleted)
	require.NoError(t, err)
	assert.True(t, has)

	// Flags are independent per milestone and per session.
	has, err = store.HasFlag(ctx, "sess-1", FlagBookingCompleted)
	require.NoError(t, err)
	assert.False(t, has)

	has, err = store.HasFlag(ctx, "sess-2", FlagAssessmentCompleted)
	require.NoError(t, err)
	assert.False(t, has)
}
