// Package token signs and checks the HS256 tokens both halves of a pair
// are made of. Decode parses a token without touching the signature so
// callers can reject stale tokens before paying for verification; Verify
// checks the signature before trusting any claim.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMalformed means the string is not structurally a token.
	ErrMalformed = errors.New("malformed token")
	// ErrBadSignature means the token was signed with a different key or
	// algorithm.
	ErrBadSignature = errors.New("bad token signature")
	// ErrExpired means the signature checked out but the token is past its
	// expiry.
	ErrExpired = errors.New("token expired")
)

// Claims is the signed payload: the subject login plus issuance and expiry
// timestamps.
type Claims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

// Codec signs and checks tokens with a single symmetric key.
type Codec struct {
	key []byte
}

// NewCodec returns a Codec for the given signing key.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) == 0 {
		return nil, errors.New("token: signing key is required")
	}
	return &Codec{key: key}, nil
}

// Sign issues a token for login expiring ttl from now. Each token carries
// a unique ID: timestamps have second precision, so without it two tokens
// signed for the same login within one second would be byte-identical and
// a rotation could hand back the pair it just replaced.
func (c *Codec) Sign(login string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Login: login,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode parses the token structure and claims WITHOUT verifying the
// signature. The result is untrusted: it is only good enough to read an
// expiry or a login before deciding whether verification is worth it.
func (c *Codec) Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

// Verify checks the signature and then the claims. Expiry is only
// reported once the signature is known good, so an attacker cannot learn
// anything about a forged token's claims from the error.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
		}
	}
	if !parsed.Valid {
		return nil, ErrBadSignature
	}
	return claims, nil
}
