package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "workout-tracker-session||"
	tokensSetKey     = "workout-tracker-sessions"
)

var (
	ErrNoSession        = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrWrongCredentials = errors.New("wrong credentials")
)

// LoginSession is one live token, pointing at its owning user.
type LoginSession struct {
	Token     string
	UserID    int
	CreatedAt time.Time
}

// sessions are stored in redis as "<userID>|<createdAtUnix>"
func encodeSessionValue(userID int, createdAt time.Time) string {
	return fmt.Sprintf("%d|%d", userID, createdAt.Unix())
}

func parseSessionValue(val string) (userID int, createdAt time.Time, err error) {
	parts := strings.SplitN(val, "|", 2)
	if len(parts) != 2 {
		return 0, time.Time{}, fmt.Errorf("malformed session value: %q", val)
	}
	userID, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("malformed session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("malformed session timestamp: %w", err)
	}
	return userID, time.Unix(createdAtUnix, 0), nil
}
