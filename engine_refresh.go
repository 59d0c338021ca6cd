package authpair

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevm/authpair/session"
	"github.com/avdeevm/authpair/token"
)

// Refresh exchanges a refresh token for a fresh pair. The checks run in a
// fixed order, cheapest first, and the first failure is terminal:
//
//  1. presence — empty token: ErrRefreshInvalid
//  2. structure — unparseable token: ErrRefreshInvalid
//  3. expiry, read from the still-unverified claims — ErrRefreshStale
//  4. signature — ErrRefreshSignature
//  5. rotation — the stored pair is swapped for a new one only if the
//     presented token is still the stored one; a superseded token or a
//     missing record means someone else already used this token's lineage
//     and fails with ErrRefreshCompromised.
//
// The expiry check deliberately precedes signature verification: an
// obviously stale token is not worth an HMAC, and the distinct error tells
// a well-behaved client to re-login rather than retry. Rotation is a
// compare-and-swap in the store, so two racing calls with the same token
// produce exactly one winner.
func (e *Engine) Refresh(ctx context.Context, refresh string) (*TokenPair, error) {
	if refresh == "" {
		return nil, ErrRefreshInvalid
	}

	claims, err := e.codec.Decode(refresh)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
		return nil, ErrRefreshStale
	}

	verified, err := e.codec.Verify(refresh)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, ErrRefreshStale
		}
		return nil, ErrRefreshSignature
	}
	login := verified.Login

	access, err := e.codec.Sign(login, e.config.Token.AccessTTL)
	if err != nil {
		return nil, err
	}
	next, err := e.codec.Sign(login, e.config.Token.RefreshTTL)
	if err != nil {
		return nil, err
	}

	rec := &session.Record{
		Login:        login,
		AccessToken:  access,
		RefreshToken: next,
		IssuedAt:     time.Now().Unix(),
	}
	if err := e.sessions.Rotate(ctx, login, refresh, rec); err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrPairMismatch):
			e.log.Warn("refresh rejected: token not authoritative", "login", login)
			return nil, ErrRefreshCompromised
		default:
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	pair := &TokenPair{AccessToken: access, RefreshToken: next}
	e.attachAvatar(ctx, login, pair)

	e.log.Info("pair rotated", "login", login)
	return pair, nil
}
