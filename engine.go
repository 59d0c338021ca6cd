package authpair

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avdeevm/authpair/password"
	"github.com/avdeevm/authpair/session"
	"github.com/avdeevm/authpair/token"
)

// Engine implements the token-pair lifecycle: Register, Login, Refresh,
// ValidateAccess. Construct it through [New]; the zero value is unusable.
//
// One invariant runs through everything: a login has at most one live
// (access, refresh) pair, the one in the session store. Issuing a pair
// overwrites the previous one, and any presented token that is not the
// stored one is rejected.
type Engine struct {
	config   Config
	users    UserStore
	avatars  AvatarStore
	sessions *session.Store
	hasher   *password.Hasher
	codec    *token.Codec
	log      *slog.Logger
}

// issuePair signs a fresh access/refresh pair for login and stores it as
// the login's authoritative record, replacing whatever was there.
func (e *Engine) issuePair(ctx context.Context, login string) (*TokenPair, error) {
	access, err := e.codec.Sign(login, e.config.Token.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := e.codec.Sign(login, e.config.Token.RefreshTTL)
	if err != nil {
		return nil, err
	}

	rec := &session.Record{
		Login:        login,
		AccessToken:  access,
		RefreshToken: refresh,
		IssuedAt:     time.Now().Unix(),
	}
	if err := e.sessions.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// GetAvatar returns the stored avatar URI for login, or "" when the
// account has none.
func (e *Engine) GetAvatar(ctx context.Context, login string) (string, error) {
	return e.avatars.FindByLogin(ctx, login)
}

// attachAvatar fills in the pair's avatar URI. Avatar lookup failures are
// logged but do not fail the flow: the tokens are already issued and the
// URI is decoration.
func (e *Engine) attachAvatar(ctx context.Context, login string, pair *TokenPair) {
	uri, err := e.avatars.FindByLogin(ctx, login)
	if err != nil {
		e.log.Warn("avatar lookup failed", "login", login, "error", err)
		return
	}
	pair.AvatarURI = uri
}
