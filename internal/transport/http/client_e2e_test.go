package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vovakirdan/skillhub/internal/api"
)

type staticCredential string

func (s staticCredential) Credential(context.Context) (string, bool) {
	return string(s), s != ""
}

// TestClientAgainstDemoServer drives the HTTP client through the demo backend.
func TestClientAgainstDemoServer(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.handler)
	defer ts.Close()

	room := seedRoom(t, s.store)

	client := api.NewClient(api.Options{
		UserURL: ts.URL + "/api",
		RoomURL: ts.URL + "/api",
		Timeout: 5 * time.Second,
	})

	ctx := context.Background()
	resp, err := api.NewAuthAPI(client).Register(ctx, api.RegisterRequest{
		Firstname: "Grace",
		Lastname:  "Hopper",
		Email:     "grace@example.com",
		Password:  "cobol123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User == nil {
		t.Fatal("expected inline user")
	}
	client.SetCredentials(staticCredential(resp.Token))

	user, err := api.NewUserAPI(client).GetUser(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.DisplayName() != "Grace Hopper" {
		t.Errorf("expected Grace Hopper, got %q", user.DisplayName())
	}

	rooms := api.NewRoomAPI(client)
	if _, err := rooms.JoinRoom(ctx, room.ID, user.ID, api.RoomRoleMember); err != nil {
		t.Fatalf("join: %v", err)
	}
	joined, err := rooms.UserRooms(ctx, user.ID)
	if err != nil {
		t.Fatalf("user rooms: %v", err)
	}
	if len(joined) != 1 || joined[0].ID != room.ID {
		t.Errorf("unexpected rooms: %+v", joined)
	}

	if _, err := rooms.GetRoom(ctx, 4242); !api.IsNotFound(err) {
		t.Errorf("expected 404, got %v", err)
	}

	var unauthorizedPath string
	client.SetCredentials(staticCredential("expired"))
	client.OnUnauthorized(func(_ context.Context, path string) { unauthorizedPath = path })
	if _, err := rooms.UserRooms(ctx, user.ID); !api.IsUnauthorized(err) {
		t.Fatalf("expected 401, got %v", err)
	}
	if unauthorizedPath == "" {
		t.Error("expected 401 hook to fire")
	}
}
