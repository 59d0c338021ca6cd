package authpair

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the engine needs at build time. Token settings
// have no defaults: a missing signing key or TTL is a construction-time
// failure, never a silently weakened runtime.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Session  SessionConfig
}

// TokenConfig configures the HS256 codec. All three fields are required.
type TokenConfig struct {
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// PasswordConfig carries argon2id cost parameters. Zero values are filled
// from DefaultConfig by the builder's Validate step.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// SessionConfig configures the Redis-backed pair store.
type SessionConfig struct {
	// RedisPrefix namespaces session keys. Defaults to "ap".
	RedisPrefix string
}

// DefaultConfig returns a Config with sane password parameters and an
// empty token section that Validate will reject until filled in.
func DefaultConfig() Config {
	return Config{
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Session: SessionConfig{RedisPrefix: "ap"},
	}
}

// Validate reports the first configuration error, if any.
func (c *Config) Validate() error {
	if len(c.Token.SigningKey) == 0 {
		return errors.New("config: token signing key is required")
	}
	if c.Token.AccessTTL <= 0 {
		return errors.New("config: access token TTL is required")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("config: refresh token TTL is required")
	}
	if c.Token.RefreshTTL < c.Token.AccessTTL {
		return errors.New("config: refresh token TTL must not be shorter than access token TTL")
	}
	if c.Session.RedisPrefix == "" {
		return errors.New("config: redis key prefix is required")
	}
	return nil
}

// Environment variable names read by FromEnv.
const (
	EnvSigningKey = "JWT_SECRET"
	EnvAccessTTL  = "JWT_ACCESS_TOKEN_TTL"
	EnvRefreshTTL = "JWT_REFRESH_TOKEN_TTL"
)

// FromEnv builds a Config from the process environment, loading a .env
// file first when one is present. JWT_SECRET, JWT_ACCESS_TOKEN_TTL and
// JWT_REFRESH_TOKEN_TTL are required; TTLs use Go duration syntax
// ("15m", "720h").
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	secret := os.Getenv(EnvSigningKey)
	if secret == "" {
		return Config{}, fmt.Errorf("config: %s is required", EnvSigningKey)
	}
	cfg.Token.SigningKey = []byte(secret)

	var err error
	if cfg.Token.AccessTTL, err = requiredDuration(EnvAccessTTL); err != nil {
		return Config{}, err
	}
	if cfg.Token.RefreshTTL, err = requiredDuration(EnvRefreshTTL); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func requiredDuration(name string) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, fmt.Errorf("config: %s is required", name)
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", name, err)
	}
	return d, nil
}
