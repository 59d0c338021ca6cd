package authpair

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.SigningKey = []byte("secret")
	cfg.Token.AccessTTL = 15 * time.Minute
	cfg.Token.RefreshTTL = 720 * time.Hour
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing signing key",
			mutate:  func(c *Config) { c.Token.SigningKey = nil },
			wantErr: "signing key",
		},
		{
			name:    "missing access ttl",
			mutate:  func(c *Config) { c.Token.AccessTTL = 0 },
			wantErr: "access token TTL",
		},
		{
			name:    "missing refresh ttl",
			mutate:  func(c *Config) { c.Token.RefreshTTL = 0 },
			wantErr: "refresh token TTL",
		},
		{
			name: "refresh shorter than access",
			mutate: func(c *Config) {
				c.Token.AccessTTL = time.Hour
				c.Token.RefreshTTL = time.Minute
			},
			wantErr: "must not be shorter",
		},
		{
			name:    "empty redis prefix",
			mutate:  func(c *Config) { c.Session.RedisPrefix = "" },
			wantErr: "redis key prefix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvSigningKey, "env-secret")
	t.Setenv(EnvAccessTTL, "15m")
	t.Setenv(EnvRefreshTTL, "720h")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []byte("env-secret"), cfg.Token.SigningKey)
	assert.Equal(t, 15*time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, 720*time.Hour, cfg.Token.RefreshTTL)
	assert.NotZero(t, cfg.Password.Memory, "password defaults must be filled")
}

func TestFromEnvMissingSecret(t *testing.T) {
	t.Setenv(EnvSigningKey, "")
	t.Setenv(EnvAccessTTL, "15m")
	t.Setenv(EnvRefreshTTL, "720h")

	_, err := FromEnv()
	require.ErrorContains(t, err, EnvSigningKey)
}

func TestFromEnvMissingTTL(t *testing.T) {
	t.Setenv(EnvSigningKey, "env-secret")
	t.Setenv(EnvAccessTTL, "")
	t.Setenv(EnvRefreshTTL, "720h")

	_, err := FromEnv()
	require.ErrorContains(t, err, EnvAccessTTL)
}

func TestFromEnvBadDuration(t *testing.T) {
	t.Setenv(EnvSigningKey, "env-secret")
	t.Setenv(EnvAccessTTL, "15 minutes")
	t.Setenv(EnvRefreshTTL, "720h")

	_, err := FromEnv()
	require.ErrorContains(t, err, EnvAccessTTL)
}
