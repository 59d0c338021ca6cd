package authpair

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/avdeevm/authpair/session"
)

// ValidateAccess resolves a bearer access token to the account it belongs
// to. The signature and expiry are verified first (ErrUnauthorized on any
// failure), the account must still exist (ErrUserNotFound), and the token
// must be the access token currently stored for the login — a verifiable
// but superseded token fails with ErrAccessCompromised, which is what a
// token left over from before a newer login or refresh looks like.
func (e *Engine) ValidateAccess(ctx context.Context, access string) (*Identity, error) {
	claims, err := e.codec.Verify(access)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := e.users.FindByLogin(ctx, claims.Login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("validate: lookup %q: %w", claims.Login, err)
	}

	rec, err := e.sessions.Get(ctx, claims.Login)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrAccessCompromised
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if subtle.ConstantTimeCompare([]byte(rec.AccessToken), []byte(access)) != 1 {
		e.log.Warn("access rejected: token superseded", "login", claims.Login)
		return nil, ErrAccessCompromised
	}

	uri, err := e.avatars.FindByLogin(ctx, claims.Login)
	if err != nil {
		e.log.Warn("avatar lookup failed", "login", claims.Login, "error", err)
		uri = ""
	}

	return &Identity{User: *user, AvatarURI: uri}, nil
}
