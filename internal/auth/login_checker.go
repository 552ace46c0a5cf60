package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// Session resolves a token to its live session, or fails with
// ErrNoSession / ErrSessionExpired.
func (lc *LoginChecker) Session(ctx context.Context, token string) (*LoginSession, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := lc.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	userID, createdAt, err := parseSessionValue(cmd.Val())
	if err != nil {
		return nil, err
	}

	if time.Since(createdAt) > lc.ttl {
		return nil, ErrSessionExpired
	}

	return &LoginSession{
		Token:     token,
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := lc.Session(ctx, token)
	if errors.Is(err, ErrNoSession) || errors.Is(err, ErrSessionExpired) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
