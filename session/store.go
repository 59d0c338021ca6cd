package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a login has no stored pair.
var ErrNotFound = errors.New("session record not found")

// ErrPairMismatch is returned by Rotate when the presented refresh token
// is not the stored one. The caller decides what that means; here it is
// just a failed compare-and-swap.
var ErrPairMismatch = errors.New("stored refresh token mismatch")

// ErrRedisUnavailable wraps transport-level Redis failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	rotateStatusNotFound int64 = 0
	rotateStatusCorrupt  int64 = 1
	rotateStatusMismatch int64 = 2
	rotateStatusRotated  int64 = 3
)

// rotatePairScript compares the refresh token inside the stored record
// against ARGV[1] and, only on a match, replaces the whole record with
// ARGV[2]. Runs atomically in Redis, so two racing rotations with the same
// token yield exactly one winner. The record walk mirrors the layout
// documented in record.go.
const rotatePairScript = `
local function read_be16(s, i)
  local hi = string.byte(s, i)
  local lo = string.byte(s, i + 1)
  if not lo then
    return nil
  end
  return hi * 256 + lo
end

local key = KEYS[1]
local provided = ARGV[1]
local replacement = ARGV[2]
local ttl_ms = tonumber(ARGV[3])

local data = redis.call("GET", key)
if not data then
  return 0
end

if string.byte(data, 1) ~= 1 then
  return 1
end

local idx = 2
local login_len = read_be16(data, idx)
if not login_len then
  return 1
end
idx = idx + 2 + login_len

local access_len = read_be16(data, idx)
if not access_len then
  return 1
end
idx = idx + 2 + access_len

local refresh_len = read_be16(data, idx)
if not refresh_len then
  return 1
end
idx = idx + 2
if #data < idx + refresh_len - 1 then
  return 1
end
local stored = string.sub(data, idx, idx + refresh_len - 1)

if stored ~= provided then
  return 2
end

if ttl_ms > 0 then
  redis.call("SET", key, replacement, "PX", ttl_ms)
else
  redis.call("SET", key, replacement)
end
return 3
`

var rotatePairLua = redis.NewScript(rotatePairScript)

// Store keeps one Record per login in Redis.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore creates a Store. prefix namespaces the keys; ttl bounds each
// record's lifetime (zero or negative means no expiry). Callers pass the
// refresh-token TTL here: once the refresh token inside a record is past
// its expiry the record can never be used again, so letting Redis drop it
// at the same moment changes nothing observable.
func NewStore(client redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	return &Store{redis: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(login string) string {
	return s.prefix + ":pair:" + login
}

// Save unconditionally replaces the stored pair for rec's login. The write
// is a single SET and is detached from the request context: once the
// caller decided to issue a pair, a client disconnect must not leave the
// issued tokens and the stored record disagreeing.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}

	err = s.redis.Set(context.WithoutCancel(ctx), s.key(rec.Login), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get returns the stored pair for login, or ErrNotFound.
func (s *Store) Get(ctx context.Context, login string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.key(login)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return decodeRecord(data)
}

// Delete removes the stored pair for login, if any.
func (s *Store) Delete(ctx context.Context, login string) error {
	if err := s.redis.Del(context.WithoutCancel(ctx), s.key(login)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Rotate atomically replaces login's record with next, but only if the
// refresh token currently stored equals presented. Returns ErrNotFound
// when no record exists and ErrPairMismatch when the compare fails; in
// both cases nothing is written.
func (s *Store) Rotate(ctx context.Context, login, presented string, next *Record) error {
	data, err := encodeRecord(next)
	if err != nil {
		return err
	}

	status, err := rotatePairLua.Run(
		context.WithoutCancel(ctx),
		s.redis,
		[]string{s.key(login)},
		presented,
		data,
		s.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	switch status {
	case rotateStatusNotFound:
		return ErrNotFound
	case rotateStatusCorrupt:
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, errCorruptRecord)
	case rotateStatusMismatch:
		return ErrPairMismatch
	case rotateStatusRotated:
		return nil
	default:
		return fmt.Errorf("%w: unknown rotate script status %d", ErrRedisUnavailable, status)
	}
}
