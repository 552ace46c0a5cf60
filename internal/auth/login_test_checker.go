package auth

import "context"

type LoginTestChecker struct {
	LoggedSessions map[string]int // token -> user id
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: map[string]int{},
	}
}

func (c *LoginTestChecker) Session(_ context.Context, token string) (*LoginSession, error) {
	userID, ok := c.LoggedSessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	return &LoginSession{
		Token:  token,
		UserID: userID,
	}, nil
}
