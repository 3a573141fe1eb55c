package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/auth"
	"github.com/vovakirdan/skillhub/internal/config"
	"github.com/vovakirdan/skillhub/internal/store"
	"github.com/vovakirdan/skillhub/internal/store/sqlite"
)

const testSecret = "test-secret"

// createTestStore creates an in-memory SQLite store with migrations applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store) *auth.Service {
	t.Helper()

	return auth.NewService(st, &auth.JWTConfig{
		Secret: []byte(testSecret),
		Issuer: "test",
		TTL:    24 * time.Hour,
	})
}

type testServer struct {
	store   store.Store
	auth    *auth.Service
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := createTestStore(t)
	authService := createTestAuthService(t, st)
	disabledLogger := zerolog.Nop()

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.RateLimitPerMin = 0

	server := NewServer(authService, st, &cfg, &disabledLogger)
	return &testServer{store: st, auth: authService, handler: server.Handler}
}

// register creates a user and returns its token and id.
func (s *testServer) register(t *testing.T, email string) (string, int64) {
	t.Helper()

	token, user, err := s.auth.Register(context.Background(), auth.Registration{
		Firstname: "Test",
		Lastname:  "User",
		Email:     email,
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	return token, user.ID
}

// do sends a request and decodes a JSON body into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)

	if out != nil && resp.Code < 300 {
		if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to unmarshal response: %v (%s)", err, resp.Body.String())
		}
	}
	return resp.Code
}
