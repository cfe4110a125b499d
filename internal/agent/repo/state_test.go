package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripflow/server/internal/agent/model"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStateStoreRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisStateStore(client, time.Hour)
	ctx := context.Background()

	s := model.NewDialogueState("u1", "sess1")
	s.AppendHuman("plan me a trip to Goa")
	s.Destination = "Goa"
	s.Source = "Pune"
	s.StartDate = "2026-02-01"
	s.EndDate = "2026-02-05"
	s.Duration = 5
	s.Suspend(model.SuspendConfirmation, "")

	require.NoError(t, store.Save(ctx, s))

	got, err := store.Load(ctx, "u1", "sess1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Goa", got.Destination)
	assert.Equal(t, 5, got.Duration)
	assert.True(t, got.AwaitingConfirmation)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "plan me a trip to Goa", got.Messages[0].Content)
}

func TestStateStoreMissingReturnsNil(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisStateStore(client, time.Hour)

	got, err := store.Load(context.Background(), "nobody", "nothing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStateStoreCorruptedDocumentStartsFresh(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStateStore(client, time.Hour)

	require.NoError(t, mr.Set("conversation_state:u1:sess1", "{this is not json"))

	got, err := store.Load(context.Background(), "u1", "sess1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStateStoreSlidingTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStateStore(client, time.Hour)
	ctx := context.Background()

	s := model.NewDialogueState("u1", "sess1")
	require.NoError(t, store.Save(ctx, s))

	key := "conversation_state:u1:sess1"
	mr.FastForward(30 * time.Minute)
	assert.Equal(t, 30*time.Minute, mr.TTL(key))

	_, err := store.Load(ctx, "u1", "sess1")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestStateStoreDelete(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisStateStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, model.NewDialogueState("u1", "sess1")))
	require.NoError(t, store.Delete(ctx, "u1", "sess1"))

	got, err := store.Load(ctx, "u1", "sess1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
