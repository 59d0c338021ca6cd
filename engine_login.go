package authpair

import (
	"context"
	"errors"
	"fmt"
)

// Login checks credentials and issues a fresh pair, replacing any pair the
// login held before — signing in from a second client signs the first one
// out. Unknown logins fail with ErrUserNotFound, wrong passwords with
// ErrInvalidCredentials; [StatusCode] collapses the two at the HTTP
// boundary so callers cannot probe which logins exist.
func (e *Engine) Login(ctx context.Context, login, pass string) (*TokenPair, error) {
	e.log.Info("login requested", "login", login)

	user, err := e.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.log.Warn("login rejected: unknown login", "login", login)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("login: lookup %q: %w", login, err)
	}

	ok, err := e.hasher.Verify(user.PasswordHash, pass)
	if err != nil {
		// The stored digest did not parse. That is data corruption, not a
		// wrong password; it must surface, not masquerade as a 404.
		e.log.Error("login failed: stored digest unreadable", "login", login, "error", err)
		return nil, fmt.Errorf("login: verify %q: %w", login, err)
	}
	if !ok {
		e.log.Warn("login rejected: wrong password", "login", login)
		return nil, ErrInvalidCredentials
	}

	pair, err := e.issuePair(ctx, login)
	if err != nil {
		return nil, err
	}
	e.attachAvatar(ctx, login, pair)

	e.log.Info("login complete", "login", login)
	return pair, nil
}
