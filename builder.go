package authpair

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/avdeevm/authpair/password"
	"github.com/avdeevm/authpair/session"
	"github.com/avdeevm/authpair/token"
)

// Builder assembles an Engine. Collaborators are supplied through the
// With* chain; Build validates the configuration, wires the hasher, codec
// and session store, and hands back a ready Engine.
type Builder struct {
	config  Config
	redis   redis.UniversalClient
	users   UserStore
	avatars AvatarStore
	logger  *slog.Logger
	built   bool
}

// New starts a Builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the builder's configuration. Zero password
// parameters are backfilled from DefaultConfig at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing the session store. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUsers sets the durable credential store. Required.
func (b *Builder) WithUsers(users UserStore) *Builder {
	b.users = users
	return b
}

// WithAvatars sets the avatar lookup. Optional; without it every account
// resolves to no avatar.
func (b *Builder) WithAvatars(avatars AvatarStore) *Builder {
	b.avatars = avatars
	return b
}

// WithLogger sets the engine's logger. Optional; the default discards.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates and wires everything. The Builder is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, fmt.Errorf("%w: builder already used", ErrEngineNotReady)
	}
	b.built = true

	if b.redis == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrEngineNotReady)
	}
	if b.users == nil {
		return nil, fmt.Errorf("%w: user store is required", ErrEngineNotReady)
	}

	cfg := b.config
	if cfg.Password == (PasswordConfig{}) {
		cfg.Password = DefaultConfig().Password
	}
	if cfg.Session.RedisPrefix == "" {
		cfg.Session.RedisPrefix = DefaultConfig().Session.RedisPrefix
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(cfg.Token.SigningKey)
	if err != nil {
		return nil, err
	}

	avatars := b.avatars
	if avatars == nil {
		avatars = noopAvatars{}
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Engine{
		config:   cfg,
		users:    b.users,
		avatars:  avatars,
		sessions: session.NewStore(b.redis, cfg.Session.RedisPrefix, cfg.Token.RefreshTTL),
		hasher:   hasher,
		codec:    codec,
		log:      logger,
	}, nil
}
