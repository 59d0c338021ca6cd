package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/avdeevm/authpair"
)

type stubUsers struct {
	mu      sync.Mutex
	byLogin map[string]*authpair.UserRecord
}

func (s *stubUsers) FindByLogin(_ context.Context, login string) (*authpair.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byLogin[login]
	if !ok {
		return nil, authpair.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*authpair.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byLogin {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, authpair.ErrUserNotFound
}

func (s *stubUsers) Create(_ context.Context, user *authpair.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byLogin[user.Login]; ok {
		return authpair.ErrConflict
	}
	if user.ID == "" {
		user.ID = "id-" + user.Login
	}
	cp := *user
	s.byLogin[user.Login] = &cp
	return nil
}

func newTestEngine(t *testing.T) *authpair.Engine {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := authpair.DefaultConfig()
	cfg.Token.SigningKey = []byte("guard-test-secret")
	cfg.Token.AccessTTL = time.Minute
	cfg.Token.RefreshTTL = time.Hour
	cfg.Password = authpair.PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}

	engine, err := authpair.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUsers(&stubUsers{byLogin: map[string]*authpair.UserRecord{}}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return engine
}

func guardedHandler(engine *authpair.Engine) http.Handler {
	return Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			http.Error(w, "identity missing", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(identity.User.Login))
	}))
}

func TestGuardAllowsValidToken(t *testing.T) {
	engine := newTestEngine(t)
	handler := guardedHandler(engine)

	pair, err := engine.Register(context.Background(), authpair.RegisterRequest{Login: "alice", Password: "p1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != "alice" {
		t.Fatalf("expected identity in handler, got %q", rr.Body.String())
	}
}

func TestGuardRejectsMissingHeader(t *testing.T) {
	handler := guardedHandler(newTestEngine(t))

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", "token xyz"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rr.Code)
		}
	}
}

func TestGuardRejectsGarbageToken(t *testing.T) {
	handler := guardedHandler(newTestEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGuardRejectsSupersededToken(t *testing.T) {
	engine := newTestEngine(t)
	handler := guardedHandler(engine)
	ctx := context.Background()

	pair, err := engine.Register(ctx, authpair.RegisterRequest{Login: "alice", Password: "p1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := engine.Login(ctx, "alice", "p1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// Superseded but verifiable tokens are a policy rejection, not an
	// authentication failure.
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}
