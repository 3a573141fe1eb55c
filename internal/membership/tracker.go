// Package membership tracks the set of rooms the current user belongs to.
package membership

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/api"
)

var (
	// ErrNoIdentity is returned by Join and Leave before a user is bound.
	ErrNoIdentity = errors.New("membership: no user bound")
	// ErrInvalidRoomID is returned by ParseRoomID for non-numeric input.
	ErrInvalidRoomID = errors.New("membership: invalid room id")
)

// Rooms is the part of the room service the tracker needs.
type Rooms interface {
	UserRooms(ctx context.Context, userID int64) ([]api.Room, error)
	JoinRoom(ctx context.Context, roomID, userID int64, role api.RoomRole) (*api.UserRoom, error)
	LeaveRoom(ctx context.Context, roomID, userID int64) error
}

// Tracker caches the membership set of one user. Mutations go to the backend
// first and are followed by a full refresh; the set is never patched locally.
type Tracker struct {
	rooms Rooms
	log   *zerolog.Logger

	mu     sync.RWMutex
	userID int64
	bound  bool
	gen    uint64
	set    map[int64]struct{}
}

// NewTracker creates an unbound tracker.
func NewTracker(rooms Rooms, logger *zerolog.Logger) *Tracker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Tracker{
		rooms: rooms,
		log:   logger,
		set:   make(map[int64]struct{}),
	}
}

// Refresh binds the tracker to userID and replaces the set with the rooms the
// backend reports. On failure the set becomes empty and the error is logged.
// A refresh overtaken by a newer Refresh, Reset or rebind is discarded.
func (t *Tracker) Refresh(ctx context.Context, userID int64) {
	t.mu.Lock()
	if !t.bound || t.userID != userID {
		t.userID = userID
		t.bound = true
		t.set = make(map[int64]struct{})
	}
	t.gen++
	gen := t.gen
	t.mu.Unlock()

	rooms, err := t.rooms.UserRooms(ctx, userID)

	set := make(map[int64]struct{}, len(rooms))
	if err != nil {
		t.log.Warn().Err(err).Int64("user_id", userID).Msg("membership refresh failed")
	} else {
		for _, r := range rooms {
			set[r.ID] = struct{}{}
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || !t.bound || t.userID != userID {
		t.log.Debug().Int64("user_id", userID).Msg("stale membership refresh discarded")
		return
	}
	t.set = set
}

// Bind attaches the tracker to userID without fetching. Binding another user
// empties the set.
func (t *Tracker) Bind(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bound && t.userID == userID {
		return
	}
	t.userID = userID
	t.bound = true
	t.gen++
	t.set = make(map[int64]struct{})
}

// IsMember reports whether roomID is in the cached set.
func (t *Tracker) IsMember(roomID int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.set[roomID]
	return ok
}

// ParseRoomID converts a textual room ID to its numeric form.
func ParseRoomID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRoomID, s)
	}
	return id, nil
}

// Join joins roomID as a regular member.
func (t *Tracker) Join(ctx context.Context, roomID int64) error {
	return t.JoinAs(ctx, roomID, api.RoomRoleMember)
}

// JoinAs joins roomID with role and refreshes the set before returning.
func (t *Tracker) JoinAs(ctx context.Context, roomID int64, role api.RoomRole) error {
	userID, ok := t.UserID()
	if !ok {
		return ErrNoIdentity
	}
	if _, err := t.rooms.JoinRoom(ctx, roomID, userID, role); err != nil {
		return fmt.Errorf("join room %d: %w", roomID, err)
	}
	t.Refresh(ctx, userID)
	return nil
}

// Leave leaves roomID and refreshes the set before returning.
func (t *Tracker) Leave(ctx context.Context, roomID int64) error {
	userID, ok := t.UserID()
	if !ok {
		return ErrNoIdentity
	}
	if err := t.rooms.LeaveRoom(ctx, roomID, userID); err != nil {
		return fmt.Errorf("leave room %d: %w", roomID, err)
	}
	t.Refresh(ctx, userID)
	return nil
}

// UserID returns the bound user.
func (t *Tracker) UserID() (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userID, t.bound
}

// Rooms returns the cached room IDs in ascending order.
func (t *Tracker) Rooms() []int64 {
	t.mu.RLock()
	ids := make([]int64, 0, len(t.set))
	for id := range t.set {
		ids = append(ids, id)
	}
	t.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Reset unbinds the tracker and empties the set. In-flight refreshes are
// discarded.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userID = 0
	t.bound = false
	t.gen++
	t.set = make(map[int64]struct{})
}
