package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const draftKeyPrefix = "workout-tracker-active-workout||"

// Store is the single-slot draft store of one user. Get returns nil
// without an error when no draft is stored or the stored value is
// corrupt, a broken slot behaves like an empty one.
type Store interface {
	Get(ctx context.Context, userID int) (*Draft, error)
	Set(ctx context.Context, userID int, draft *Draft) error
	Clear(ctx context.Context, userID int) error
}

type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

var _ Store = (*RedisStore)(nil)

func draftKey(userID int) string {
	return fmt.Sprintf("%s%d", draftKeyPrefix, userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int) (*Draft, error) {
	draftJson, err := s.redisClient.Get(ctx, draftKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(draftJson), &draft); err != nil {
		log.Warnf("corrupt draft for user %d, treating as empty: %s", userID, err)
		return nil, nil
	}
	return &draft, nil
}

// Set replaces the slot. The write is immediately durable from the
// caller's point of view, a reload right after Set sees the new value.
func (s *RedisStore) Set(ctx context.Context, userID int, draft *Draft) error {
	draftJson, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.redisClient.Set(ctx, draftKey(userID), draftJson, 0).Err(); err != nil {
		return fmt.Errorf("set draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int) error {
	if err := s.redisClient.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
