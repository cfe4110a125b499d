package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripflow/server/internal/agent/model"
	errx "github.com/tripflow/server/internal/core/error"
	logx "github.com/tripflow/server/pkg/logger"
)

// RedisStateStore persists DialogueState documents with a sliding TTL.
type RedisStateStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStateStore(rdb redis.Cmdable, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{rdb: rdb, ttl: ttl}
}

func (r *RedisStateStore) stateKey(userID, sessionID string) string {
	return fmt.Sprintf("conversation_state:%s:%s", userID, sessionID)
}

// Load retrieves the state for a (user, session) pair. A missing key yields
// (nil, nil). A corrupted document is treated as no prior state and logged
// as a data-integrity warning, never surfaced to the user. The TTL slides
// on every successful read.
func (r *RedisStateStore) Load(ctx context.Context, userID, sessionID string) (*model.DialogueState, error) {
	key := r.stateKey(userID, sessionID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation state from redis")
		return nil, errx.WrapRedis(err)
	}

	var state model.DialogueState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("corrupted conversation state, starting fresh")
		return nil, nil
	}
	state.UserID = userID
	state.SessionID = sessionID

	if r.ttl > 0 {
		if err := r.rdb.Expire(ctx, key, r.ttl).Err(); err != nil {
			logx.Warn().Err(err).Str("key", key).Msg("failed to refresh state TTL")
		}
	}

	return &state, nil
}

// Save writes the state back with a fresh TTL.
func (r *RedisStateStore) Save(ctx context.Context, state *model.DialogueState) error {
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("user_id", state.UserID).Msg("failed to marshal conversation state")
		return fmt.Errorf("marshal conversation state: %w", err)
	}

	key := r.stateKey(state.UserID, state.SessionID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save conversation state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

// Delete removes the state for a (user, session) pair.
func (r *RedisStateStore) Delete(ctx context.Context, userID, sessionID string) error {
	key := r.stateKey(userID, sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete conversation state from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.StateStore = (*RedisStateStore)(nil)
