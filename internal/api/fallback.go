package api

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// fallback runs primary and, when it fails because the backend is offline,
// serves the same call from secondary.
func fallback[T any](log *zerolog.Logger, op string, primary, secondary func() (T, error)) (T, error) {
	v, err := primary()
	if err == nil || !errors.Is(err, ErrOffline) {
		return v, err
	}
	log.Debug().Str("op", op).Msg("backend offline, serving from local dataset")
	return secondary()
}

func noValue(err error) (struct{}, error) {
	return struct{}{}, err
}

// RoomFallback serves room calls from a local dataset when the room service
// is offline. Any other failure is returned unchanged.
type RoomFallback struct {
	primary   RoomService
	secondary RoomService
	log       *zerolog.Logger
}

var _ RoomService = (*RoomFallback)(nil)

// NewRoomFallback wraps primary with secondary as its offline substitute.
func NewRoomFallback(primary, secondary RoomService, logger *zerolog.Logger) *RoomFallback {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RoomFallback{primary: primary, secondary: secondary, log: logger}
}

func (f *RoomFallback) GetRoom(ctx context.Context, id int64) (*Room, error) {
	return fallback(f.log, "get_room",
		func() (*Room, error) { return f.primary.GetRoom(ctx, id) },
		func() (*Room, error) { return f.secondary.GetRoom(ctx, id) })
}

func (f *RoomFallback) RoomsByDirection(ctx context.Context, directionID int64) ([]Room, error) {
	return fallback(f.log, "rooms_by_direction",
		func() ([]Room, error) { return f.primary.RoomsByDirection(ctx, directionID) },
		func() ([]Room, error) { return f.secondary.RoomsByDirection(ctx, directionID) })
}

func (f *RoomFallback) UserRooms(ctx context.Context, userID int64) ([]Room, error) {
	return fallback(f.log, "user_rooms",
		func() ([]Room, error) { return f.primary.UserRooms(ctx, userID) },
		func() ([]Room, error) { return f.secondary.UserRooms(ctx, userID) })
}

func (f *RoomFallback) CreateRoom(ctx context.Context, in RoomInput) (*Room, error) {
	return fallback(f.log, "create_room",
		func() (*Room, error) { return f.primary.CreateRoom(ctx, in) },
		func() (*Room, error) { return f.secondary.CreateRoom(ctx, in) })
}

func (f *RoomFallback) DeleteRoom(ctx context.Context, id int64) error {
	_, err := fallback(f.log, "delete_room",
		func() (struct{}, error) { return noValue(f.primary.DeleteRoom(ctx, id)) },
		func() (struct{}, error) { return noValue(f.secondary.DeleteRoom(ctx, id)) })
	return err
}

func (f *RoomFallback) JoinRoom(ctx context.Context, roomID, userID int64, role RoomRole) (*UserRoom, error) {
	return fallback(f.log, "join_room",
		func() (*UserRoom, error) { return f.primary.JoinRoom(ctx, roomID, userID, role) },
		func() (*UserRoom, error) { return f.secondary.JoinRoom(ctx, roomID, userID, role) })
}

func (f *RoomFallback) LeaveRoom(ctx context.Context, roomID, userID int64) error {
	_, err := fallback(f.log, "leave_room",
		func() (struct{}, error) { return noValue(f.primary.LeaveRoom(ctx, roomID, userID)) },
		func() (struct{}, error) { return noValue(f.secondary.LeaveRoom(ctx, roomID, userID)) })
	return err
}

func (f *RoomFallback) Members(ctx context.Context, roomID int64) ([]UserRoom, error) {
	return fallback(f.log, "members",
		func() ([]UserRoom, error) { return f.primary.Members(ctx, roomID) },
		func() ([]UserRoom, error) { return f.secondary.Members(ctx, roomID) })
}

// DirectionFallback is RoomFallback for directions.
type DirectionFallback struct {
	primary   DirectionService
	secondary DirectionService
	log       *zerolog.Logger
}

var _ DirectionService = (*DirectionFallback)(nil)

// NewDirectionFallback wraps primary with secondary as its offline substitute.
func NewDirectionFallback(primary, secondary DirectionService, logger *zerolog.Logger) *DirectionFallback {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &DirectionFallback{primary: primary, secondary: secondary, log: logger}
}

func (f *DirectionFallback) Directions(ctx context.Context) ([]Direction, error) {
	return fallback(f.log, "directions",
		func() ([]Direction, error) { return f.primary.Directions(ctx) },
		func() ([]Direction, error) { return f.secondary.Directions(ctx) })
}

func (f *DirectionFallback) CreateDirection(ctx context.Context, in DirectionInput) (*Direction, error) {
	return fallback(f.log, "create_direction",
		func() (*Direction, error) { return f.primary.CreateDirection(ctx, in) },
		func() (*Direction, error) { return f.secondary.CreateDirection(ctx, in) })
}

func (f *DirectionFallback) DeleteDirection(ctx context.Context, id int64) error {
	_, err := fallback(f.log, "delete_direction",
		func() (struct{}, error) { return noValue(f.primary.DeleteDirection(ctx, id)) },
		func() (struct{}, error) { return noValue(f.secondary.DeleteDirection(ctx, id)) })
	return err
}
