package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/auth"
	"github.com/vovakirdan/skillhub/internal/config"
	"github.com/vovakirdan/skillhub/internal/mock"
	"github.com/vovakirdan/skillhub/internal/session"
	"github.com/vovakirdan/skillhub/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/skillhub/internal/transport/http"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return newTestClientAt(t, baseURL, ":memory:")
}

func newTestClientAt(t *testing.T, baseURL, statePath string) *Client {
	t.Helper()

	cfg := config.Default()
	cfg.StatePath = statePath
	cfg.UserServiceURL = baseURL
	cfg.RoomServiceURL = baseURL
	cfg.ContentServiceURL = baseURL
	cfg.RequestTimeout = 2 * time.Second

	logger := zerolog.Nop()
	c, err := NewClient(&cfg, &logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func startDemoBackend(t *testing.T) string {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()
	if err := SeedCatalog(context.Background(), st, &logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg := config.Default()
	cfg.RateLimitPerMin = 0
	authService := auth.NewService(st, &auth.JWTConfig{Secret: []byte("test"), Issuer: "test", TTL: time.Hour})
	server := transporthttp.NewServer(authService, st, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts.URL + "/api"
}

func TestClientSessionAgainstDemoBackend(t *testing.T) {
	c := newTestClient(t, startDemoBackend(t))
	ctx := context.Background()

	if state := c.Session.Bootstrap(ctx); state != session.Unauthenticated {
		t.Fatalf("expected unauthenticated start, got %s", state)
	}

	user, err := c.Session.Register(ctx, api.RegisterRequest{
		Firstname: "Linus",
		Lastname:  "T",
		Email:     "linus@example.com",
		Password:  "kernel1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.DisplayName() != "Linus T" {
		t.Errorf("unexpected name %q", user.DisplayName())
	}
	c.Session.Wait()

	if err := c.Session.JoinRoom(ctx, 101); err != nil {
		t.Fatalf("join: %v", err)
	}
	if !c.Session.IsMember(101) {
		t.Error("expected membership in room 101 after joining")
	}

	if err := c.Session.SelectDirection(ctx, 2); err != nil {
		t.Fatalf("select direction: %v", err)
	}

	if err := c.Session.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if c.Session.IsMember(101) {
		t.Error("membership should be cleared after logout")
	}

	user, err = c.Session.Login(ctx, "linus@example.com", "kernel1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.SelectedDirectionID == nil || *user.SelectedDirectionID != 2 {
		t.Errorf("expected selected direction 2 to survive logout, got %v", user.SelectedDirectionID)
	}
	c.Session.Wait()
	if !c.Session.IsMember(101) {
		t.Error("expected membership restored after login")
	}
}

func TestClientOfflineFallback(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1/api")
	ctx := context.Background()

	directions, err := c.Directions.Directions(ctx)
	if err != nil {
		t.Fatalf("directions: %v", err)
	}
	if len(directions) != len(mock.DefaultDirections()) {
		t.Errorf("expected offline directions, got %d", len(directions))
	}
	if !c.Transport.Offline() {
		t.Error("expected transport to be offline")
	}

	if _, err := c.Rooms.JoinRoom(ctx, 102, 1, api.RoomRoleMember); err != nil {
		t.Fatalf("offline join: %v", err)
	}
	rooms, err := c.Rooms.UserRooms(ctx, 1)
	if err != nil {
		t.Fatalf("offline user rooms: %v", err)
	}
	found := false
	for _, r := range rooms {
		if r.ID == 102 {
			found = true
		}
	}
	if !found {
		t.Error("expected offline join to persist")
	}
}

func TestClientBootstrapLandsOnDashboard(t *testing.T) {
	baseURL := startDemoBackend(t)
	statePath := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	first := newTestClientAt(t, baseURL, statePath)
	if state := first.Bootstrap(ctx); state != session.Unauthenticated {
		t.Fatalf("expected unauthenticated start, got %s", state)
	}
	if first.Navigator.Current() != session.RouteLogin {
		t.Fatalf("signed-out client must stay on login, got %s", first.Navigator.Current())
	}
	user, err := first.Session.Register(ctx, api.RegisterRequest{
		Firstname: "Ada",
		Email:     "ada@example.com",
		Password:  "engine1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := newTestClientAt(t, baseURL, statePath)
	if state := second.Bootstrap(ctx); state != session.Authenticated {
		t.Fatalf("expected restored session, got %s", state)
	}
	if second.Navigator.Current() != session.RouteDashboard {
		t.Fatalf("expected dashboard after restore, got %s", second.Navigator.Current())
	}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(user.ID, 10),
	}).SignedString([]byte("not-the-server-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := session.NewCredentialStore(second.state, nil).SetCredential(ctx, forged); err != nil {
		t.Fatalf("store credential: %v", err)
	}

	if _, err := second.Rooms.UserRooms(ctx, user.ID); err == nil {
		t.Fatal("expected the rejected credential to fail")
	}
	if second.Navigator.Current() != session.RouteLogin {
		t.Fatalf("expected redirect to login, got %s", second.Navigator.Current())
	}
	if second.Session.IsAuthenticated() {
		t.Fatal("session must end after a rejected credential")
	}
	if _, ok := second.Session.Credential(ctx); ok {
		t.Fatal("rejected credential must be cleared")
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestClientPreferencesLogComponent(t *testing.T) {
	baseURL := startDemoBackend(t)
	ctx := context.Background()

	var out lockedBuffer
	logger := zerolog.New(&out).Level(zerolog.WarnLevel)
	cfg := config.Default()
	cfg.StatePath = ":memory:"
	cfg.UserServiceURL = baseURL
	cfg.RoomServiceURL = baseURL
	cfg.ContentServiceURL = baseURL
	c, err := NewClient(&cfg, &logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	user, err := c.Session.Register(ctx, api.RegisterRequest{Email: "ada@example.com", Password: "engine1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	c.Session.Wait()
	if err := c.state.Set(ctx, "selected_direction_"+strconv.FormatInt(user.ID, 10), "north"); err != nil {
		t.Fatalf("seed preference: %v", err)
	}
	if _, err := c.Session.Login(ctx, "ada@example.com", "engine1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	c.Session.Wait()

	found := false
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry["message"] == "ignoring malformed selected direction" {
			found = true
			if entry["component"] != "preferences" {
				t.Errorf("expected preferences component, got %v", entry["component"])
			}
		}
	}
	if !found {
		t.Fatalf("expected a malformed preference warning, got:\n%s", out.String())
	}
}
