// Package password hashes and verifies passwords with argon2id. Digests
// use the PHC string format, so every digest carries its own salt and cost
// parameters and old digests stay verifiable after a cost bump.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedDigest is returned by Verify when the stored digest cannot
// be parsed. Callers must treat it as data corruption, not as a mismatch.
var ErrMalformedDigest = errors.New("malformed password digest")

// Config carries argon2id cost parameters.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Hasher derives and checks argon2id digests with fixed parameters.
type Hasher struct {
	cfg Config
}

// NewHasher validates the parameters and returns a ready Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	switch {
	case cfg.Memory < 8*1024:
		return nil, errors.New("password: memory below 8 MiB")
	case cfg.Time < 1:
		return nil, errors.New("password: time cost below 1")
	case cfg.Parallelism < 1:
		return nil, errors.New("password: parallelism below 1")
	case cfg.SaltLength < 16:
		return nil, errors.New("password: salt below 16 bytes")
	case cfg.KeyLength < 16:
		return nil, errors.New("password: key below 16 bytes")
	}
	return &Hasher{cfg: cfg}, nil
}

// Hash derives a digest for plaintext with a fresh random salt.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt generation: %w", err)
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		salt,
		h.cfg.Time,
		h.cfg.Memory,
		h.cfg.Parallelism,
		h.cfg.KeyLength,
	)

	digest := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.cfg.Memory,
		h.cfg.Time,
		h.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return digest, nil
}

// Verify reports whether plaintext matches the stored digest. The digest's
// own embedded parameters drive the derivation. A digest that cannot be
// parsed yields (false, ErrMalformedDigest); a clean mismatch yields
// (false, nil). The comparison is constant-time.
func (h *Hasher) Verify(digest, plaintext string) (bool, error) {
	cfg, salt, want, err := parseDigest(digest)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey(
		[]byte(plaintext),
		salt,
		cfg.Time,
		cfg.Memory,
		cfg.Parallelism,
		uint32(len(want)),
	)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func parseDigest(digest string) (Config, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Config{}, nil, nil, ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Config{}, nil, nil, fmt.Errorf("%w: unsupported version", ErrMalformedDigest)
	}

	var cfg Config
	if n, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &cfg.Memory, &cfg.Time, &cfg.Parallelism); err != nil || n != 3 {
		return Config{}, nil, nil, fmt.Errorf("%w: bad parameters", ErrMalformedDigest)
	}
	if cfg.Memory == 0 || cfg.Time == 0 || cfg.Parallelism == 0 {
		return Config{}, nil, nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedDigest)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Config{}, nil, nil, fmt.Errorf("%w: bad salt", ErrMalformedDigest)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Config{}, nil, nil, fmt.Errorf("%w: bad key", ErrMalformedDigest)
	}

	return cfg, salt, key, nil
}
