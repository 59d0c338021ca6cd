package authpair

import (
	"context"
	"errors"
	"fmt"
)

// Register creates an account and logs it in, returning its first token
// pair. Fails with ErrConflict when the login is taken and with
// ErrPasswordMismatch when a confirmation is supplied and differs from
// the password. Nothing is written unless every check passes.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*TokenPair, error) {
	e.log.Info("registration requested", "login", req.Login)

	_, err := e.users.FindByLogin(ctx, req.Login)
	switch {
	case err == nil:
		e.log.Warn("registration rejected: login taken", "login", req.Login)
		return nil, ErrConflict
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("register: lookup %q: %w", req.Login, err)
	}

	if req.Confirm != "" && req.Confirm != req.Password {
		e.log.Warn("registration rejected: confirmation mismatch", "login", req.Login)
		return nil, ErrPasswordMismatch
	}

	digest, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &UserRecord{Login: req.Login, PasswordHash: digest}
	if err := e.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost a race with a concurrent registration for the same login.
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("register: create %q: %w", req.Login, err)
	}

	pair, err := e.issuePair(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	e.attachAvatar(ctx, req.Login, pair)

	e.log.Info("registration complete", "login", req.Login, "user_id", user.ID)
	return pair, nil
}
