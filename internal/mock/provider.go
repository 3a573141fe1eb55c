// Package mock serves rooms, directions and memberships from a local dataset
// persisted in the key/value store. It stands in for the room service when
// the backend is unreachable.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/store"
)

// Storage keys of the datasets.
const (
	KeyDirections = "skillhub_directions"
	KeyRooms      = "skillhub_rooms"
	KeyMembers    = "skillhub_members"
)

// Provider implements api.RoomService and api.DirectionService on top of a
// store.KV. Missing keys read as the seed data; every mutation writes the
// whole dataset back.
type Provider struct {
	kv store.KV
	mu sync.Mutex
}

var (
	_ api.RoomService      = (*Provider)(nil)
	_ api.DirectionService = (*Provider)(nil)
)

// New creates a provider persisting into kv.
func New(kv store.KV) *Provider {
	return &Provider{kv: kv}
}

type dataset struct {
	directions []api.Direction
	rooms      []api.Room
	members    map[int64][]api.UserRoom
}

func loadKey[T any](ctx context.Context, kv store.KV, key string, def T) (T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return def, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func saveKey(ctx context.Context, kv store.KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(data))
}

func (p *Provider) load(ctx context.Context) (*dataset, error) {
	directions, err := loadKey(ctx, p.kv, KeyDirections, DefaultDirections())
	if err != nil {
		return nil, err
	}
	rooms, err := loadKey(ctx, p.kv, KeyRooms, DefaultRooms())
	if err != nil {
		return nil, err
	}
	members, err := loadKey(ctx, p.kv, KeyMembers, DefaultMembers())
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = make(map[int64][]api.UserRoom)
	}
	return &dataset{directions: directions, rooms: rooms, members: members}, nil
}

// Reset drops the persisted datasets so the seed applies again.
func (p *Provider) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, key := range []string{KeyDirections, KeyRooms, KeyMembers} {
		if err := p.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// ==== DirectionService ====

// Directions lists the directions.
func (p *Provider) Directions(ctx context.Context) ([]api.Direction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.directions, nil
}

// CreateDirection appends a direction with the next free ID.
func (p *Provider) CreateDirection(ctx context.Context, in api.DirectionInput) (*api.Direction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	var next int64
	for _, d := range ds.directions {
		next = max(next, d.ID)
	}
	direction := api.Direction{ID: next + 1, Name: in.Name, Description: in.Description}
	ds.directions = append(ds.directions, direction)

	if err := saveKey(ctx, p.kv, KeyDirections, ds.directions); err != nil {
		return nil, err
	}
	return &direction, nil
}

// DeleteDirection removes a direction. Unknown IDs are ignored.
func (p *Provider) DeleteDirection(ctx context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return err
	}
	ds.directions = slices.DeleteFunc(ds.directions, func(d api.Direction) bool { return d.ID == id })
	return saveKey(ctx, p.kv, KeyDirections, ds.directions)
}

// ==== RoomService ====

// GetRoom returns the room with id.
func (p *Provider) GetRoom(ctx context.Context, id int64) (*api.Room, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range ds.rooms {
		if r.ID == id {
			room := r
			return &room, nil
		}
	}
	return nil, fmt.Errorf("room %d: %w", id, store.ErrNotFound)
}

// RoomsByDirection lists the rooms of a direction.
func (p *Provider) RoomsByDirection(ctx context.Context, directionID int64) ([]api.Room, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]api.Room, 0)
	for _, r := range ds.rooms {
		if r.DirectionID == directionID {
			rooms = append(rooms, r)
		}
	}
	return rooms, nil
}

// UserRooms lists the rooms whose member list contains userID.
func (p *Provider) UserRooms(ctx context.Context, userID int64) ([]api.Room, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]api.Room, 0)
	for _, r := range ds.rooms {
		if slices.ContainsFunc(ds.members[r.ID], func(m api.UserRoom) bool { return m.UserID == userID }) {
			rooms = append(rooms, r)
		}
	}
	return rooms, nil
}

// CreateRoom updates the room when in.ID names an existing one, otherwise
// appends a new room with the next free ID.
func (p *Provider) CreateRoom(ctx context.Context, in api.RoomInput) (*api.Room, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	room := api.Room{
		ID:          in.ID,
		DirectionID: in.DirectionID,
		Name:        in.Name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
	}

	idx := -1
	if in.ID != 0 {
		idx = slices.IndexFunc(ds.rooms, func(r api.Room) bool { return r.ID == in.ID })
	}
	if idx >= 0 {
		room.CreatedAt = ds.rooms[idx].CreatedAt
		ds.rooms[idx] = room
	} else {
		var next int64
		for _, r := range ds.rooms {
			next = max(next, r.ID)
		}
		room.ID = next + 1
		ds.rooms = append(ds.rooms, room)
	}

	if err := saveKey(ctx, p.kv, KeyRooms, ds.rooms); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room and its members. Unknown IDs are ignored.
func (p *Provider) DeleteRoom(ctx context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return err
	}
	before := len(ds.rooms)
	ds.rooms = slices.DeleteFunc(ds.rooms, func(r api.Room) bool { return r.ID == id })
	if len(ds.rooms) == before {
		return nil
	}
	delete(ds.members, id)

	if err := saveKey(ctx, p.kv, KeyRooms, ds.rooms); err != nil {
		return err
	}
	return saveKey(ctx, p.kv, KeyMembers, ds.members)
}

// JoinRoom records the membership unless it already exists.
func (p *Provider) JoinRoom(ctx context.Context, roomID, userID int64, role api.RoomRole) (*api.UserRoom, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = api.RoomRoleMember
	}

	for _, m := range ds.members[roomID] {
		if m.UserID == userID {
			existing := m
			return &existing, nil
		}
	}

	membership := api.UserRoom{UserID: userID, RoomID: roomID, Role: role}
	ds.members[roomID] = append(ds.members[roomID], membership)
	if err := saveKey(ctx, p.kv, KeyMembers, ds.members); err != nil {
		return nil, err
	}
	return &membership, nil
}

// LeaveRoom drops the membership if present.
func (p *Provider) LeaveRoom(ctx context.Context, roomID, userID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return err
	}
	members, ok := ds.members[roomID]
	if !ok {
		return nil
	}
	ds.members[roomID] = slices.DeleteFunc(members, func(m api.UserRoom) bool { return m.UserID == userID })
	return saveKey(ctx, p.kv, KeyMembers, ds.members)
}

// Members lists the members of a room.
func (p *Provider) Members(ctx context.Context, roomID int64) ([]api.UserRoom, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	members := ds.members[roomID]
	if members == nil {
		return []api.UserRoom{}, nil
	}
	return members, nil
}
