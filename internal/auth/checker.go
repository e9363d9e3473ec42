package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

type Checker interface {
	// LoggedUser returns the id of the user logged in with the token, or ErrNotLoggedIn.
	LoggedUser(ctx context.Context, token string) (int, error)
}
