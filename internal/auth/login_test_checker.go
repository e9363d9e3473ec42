package auth

import "context"

// LoginTestChecker maps tokens to user ids, for tests and local runs without redis.
type LoginTestChecker struct {
	LoggedSessions map[string]int
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		map[string]int{},
	}
}

func (c *LoginTestChecker) LoggedUser(_ context.Context, token string) (int, error) {
	userID, ok := c.LoggedSessions[token]
	if !ok {
		return 0, ErrNotLoggedIn
	}
	return userID, nil
}
