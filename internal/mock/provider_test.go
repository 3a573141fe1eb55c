package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/store"
	"github.com/vovakirdan/skillhub/internal/store/sqlite"
)

func newTestProvider(t *testing.T) (*Provider, store.KV) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return New(st), st
}

func roomIDs(rooms []api.Room) []int64 {
	ids := make([]int64, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestProviderSeed(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	directions, err := p.Directions(ctx)
	if err != nil || len(directions) != 8 {
		t.Fatalf("expected 8 seed directions, got %d (%v)", len(directions), err)
	}

	rooms, err := p.UserRooms(ctx, 1)
	if err != nil {
		t.Fatalf("user rooms: %v", err)
	}
	want := []int64{101, 201, 301, 401, 602}
	got := roomIDs(rooms)
	if len(got) != len(want) {
		t.Fatalf("expected rooms %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected rooms %v, got %v", want, got)
		}
	}

	tech, err := p.RoomsByDirection(ctx, 1)
	if err != nil || len(tech) != 3 {
		t.Fatalf("expected 3 tech rooms, got %d (%v)", len(tech), err)
	}

	if _, err := p.GetRoom(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProviderJoinLeavePersists(t *testing.T) {
	p, kv := newTestProvider(t)
	ctx := context.Background()

	if _, err := p.JoinRoom(ctx, 102, 42, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	// Joining twice must not duplicate the member.
	if _, err := p.JoinRoom(ctx, 102, 42, api.RoomRoleAdmin); err != nil {
		t.Fatalf("join again: %v", err)
	}

	// A fresh provider over the same storage sees the change.
	reloaded := New(kv)
	members, err := reloaded.Members(ctx, 102)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 1 || members[0].UserID != 42 || members[0].Role != api.RoomRoleMember {
		t.Fatalf("expected one MEMBER, got %+v", members)
	}

	if err := reloaded.LeaveRoom(ctx, 102, 42); err != nil {
		t.Fatalf("leave: %v", err)
	}
	rooms, err := p.UserRooms(ctx, 42)
	if err != nil || len(rooms) != 0 {
		t.Fatalf("expected no rooms after leave, got %v (%v)", roomIDs(rooms), err)
	}
}

func TestProviderRoomCRUD(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	created, err := p.CreateRoom(ctx, api.RoomInput{DirectionID: 8, Name: "Phonetics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 803 {
		t.Fatalf("expected next id 803, got %d", created.ID)
	}

	updated, err := p.CreateRoom(ctx, api.RoomInput{ID: created.ID, DirectionID: 8, Name: "Phonology", IsPrivate: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "Phonology" || !updated.IsPrivate {
		t.Fatalf("unexpected update %+v", updated)
	}

	if _, err := p.JoinRoom(ctx, created.ID, 1, api.RoomRoleOwner); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := p.DeleteRoom(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	members, _ := p.Members(ctx, created.ID)
	if len(members) != 0 {
		t.Fatalf("expected members to be removed with the room")
	}

	dir, err := p.CreateDirection(ctx, api.DirectionInput{Name: "Music"})
	if err != nil || dir.ID != 9 {
		t.Fatalf("expected direction 9, got %+v (%v)", dir, err)
	}
	if err := p.DeleteDirection(ctx, dir.ID); err != nil {
		t.Fatalf("delete direction: %v", err)
	}
}

func TestProviderReset(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	if err := p.LeaveRoom(ctx, 101, 1); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if err := p.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	members, err := p.Members(ctx, 101)
	if err != nil || len(members) != 3 {
		t.Fatalf("expected seed members after reset, got %d (%v)", len(members), err)
	}
}
