package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// RoomService is the room backend. The HTTP client and the offline dataset
// provider both implement it.
type RoomService interface {
	GetRoom(ctx context.Context, id int64) (*Room, error)
	RoomsByDirection(ctx context.Context, directionID int64) ([]Room, error)
	UserRooms(ctx context.Context, userID int64) ([]Room, error)
	CreateRoom(ctx context.Context, in RoomInput) (*Room, error)
	DeleteRoom(ctx context.Context, id int64) error
	JoinRoom(ctx context.Context, roomID, userID int64, role RoomRole) (*UserRoom, error)
	LeaveRoom(ctx context.Context, roomID, userID int64) error
	Members(ctx context.Context, roomID int64) ([]UserRoom, error)
}

// DirectionService is the direction backend.
type DirectionService interface {
	Directions(ctx context.Context) ([]Direction, error)
	CreateDirection(ctx context.Context, in DirectionInput) (*Direction, error)
	DeleteDirection(ctx context.Context, id int64) error
}

// AuthAPI talks to the authentication endpoints of the user service.
type AuthAPI struct {
	c *Client
}

// NewAuthAPI creates an auth client.
func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login exchanges email and password for a credential.
// POST /auth/login
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := a.c.Do(ctx, ServiceUser, http.MethodPost, "/auth/login", nil, LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns its credential.
// POST /auth/register
func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := a.c.Do(ctx, ServiceUser, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserAPI talks to the profile endpoints of the user service.
type UserAPI struct {
	c *Client
}

// NewUserAPI creates a user client.
func NewUserAPI(c *Client) *UserAPI {
	return &UserAPI{c: c}
}

// GetUser fetches a profile by ID.
// GET /auth/users/{id}
func (u *UserAPI) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := u.c.Do(ctx, ServiceUser, http.MethodGet, "/auth/users/"+strconv.FormatInt(id, 10), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser sends a partial profile update.
// PUT /auth/users/{id}
func (u *UserAPI) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error) {
	var user User
	if err := u.c.Do(ctx, ServiceUser, http.MethodPut, "/auth/users/"+strconv.FormatInt(id, 10), nil, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers lists every user.
// GET /users
func (u *UserAPI) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := u.c.Do(ctx, ServiceUser, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// RoomAPI is the HTTP implementation of RoomService.
type RoomAPI struct {
	c *Client
}

var _ RoomService = (*RoomAPI)(nil)

// NewRoomAPI creates a room client.
func NewRoomAPI(c *Client) *RoomAPI {
	return &RoomAPI{c: c}
}

func roomPath(id int64, suffix string) string {
	return "/rooms/" + strconv.FormatInt(id, 10) + suffix
}

// GetRoom fetches a room.
// GET /rooms/{id}
func (r *RoomAPI) GetRoom(ctx context.Context, id int64) (*Room, error) {
	var room Room
	if err := r.c.Do(ctx, ServiceRoom, http.MethodGet, roomPath(id, ""), nil, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// RoomsByDirection lists the rooms of a direction.
// GET /rooms/direction/{directionId}
func (r *RoomAPI) RoomsByDirection(ctx context.Context, directionID int64) ([]Room, error) {
	var rooms []Room
	path := "/rooms/direction/" + strconv.FormatInt(directionID, 10)
	if err := r.c.Do(ctx, ServiceRoom, http.MethodGet, path, nil, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// UserRooms lists the rooms a user belongs to.
// GET /rooms/users/{userId}
func (r *RoomAPI) UserRooms(ctx context.Context, userID int64) ([]Room, error) {
	var rooms []Room
	path := "/rooms/users/" + strconv.FormatInt(userID, 10)
	if err := r.c.Do(ctx, ServiceRoom, http.MethodGet, path, nil, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// CreateRoom creates a room, or updates it when in.ID is set.
// POST /rooms
func (r *RoomAPI) CreateRoom(ctx context.Context, in RoomInput) (*Room, error) {
	var room Room
	if err := r.c.Do(ctx, ServiceRoom, http.MethodPost, "/rooms", nil, in, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room.
// DELETE /rooms/{id}
func (r *RoomAPI) DeleteRoom(ctx context.Context, id int64) error {
	return r.c.Do(ctx, ServiceRoom, http.MethodDelete, roomPath(id, ""), nil, nil, nil)
}

// JoinRoom adds userID to the room with role.
// POST /rooms/{id}/join?userId=&role=
func (r *RoomAPI) JoinRoom(ctx context.Context, roomID, userID int64, role RoomRole) (*UserRoom, error) {
	q := url.Values{}
	q.Set("userId", strconv.FormatInt(userID, 10))
	if role != "" {
		q.Set("role", string(role))
	}

	var membership UserRoom
	if err := r.c.Do(ctx, ServiceRoom, http.MethodPost, roomPath(roomID, "/join"), q, nil, &membership); err != nil {
		return nil, err
	}
	return &membership, nil
}

// LeaveRoom removes userID from the room.
// POST /rooms/{id}/leave?userId=
func (r *RoomAPI) LeaveRoom(ctx context.Context, roomID, userID int64) error {
	q := url.Values{}
	q.Set("userId", strconv.FormatInt(userID, 10))
	return r.c.Do(ctx, ServiceRoom, http.MethodPost, roomPath(roomID, "/leave"), q, nil, nil)
}

// Members lists the members of a room.
// GET /rooms/{id}/members
func (r *RoomAPI) Members(ctx context.Context, roomID int64) ([]UserRoom, error) {
	var members []UserRoom
	if err := r.c.Do(ctx, ServiceRoom, http.MethodGet, roomPath(roomID, "/members"), nil, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// DirectionAPI is the HTTP implementation of DirectionService. Directions
// are served by the room service.
type DirectionAPI struct {
	c *Client
}

var _ DirectionService = (*DirectionAPI)(nil)

// NewDirectionAPI creates a direction client.
func NewDirectionAPI(c *Client) *DirectionAPI {
	return &DirectionAPI{c: c}
}

// Directions lists all directions.
// GET /directions
func (d *DirectionAPI) Directions(ctx context.Context) ([]Direction, error) {
	var directions []Direction
	if err := d.c.Do(ctx, ServiceRoom, http.MethodGet, "/directions", nil, nil, &directions); err != nil {
		return nil, err
	}
	return directions, nil
}

// CreateDirection creates a direction.
// POST /directions
func (d *DirectionAPI) CreateDirection(ctx context.Context, in DirectionInput) (*Direction, error) {
	var direction Direction
	if err := d.c.Do(ctx, ServiceRoom, http.MethodPost, "/directions", nil, in, &direction); err != nil {
		return nil, err
	}
	return &direction, nil
}

// DeleteDirection removes a direction.
// DELETE /directions/{id}
func (d *DirectionAPI) DeleteDirection(ctx context.Context, id int64) error {
	return d.c.Do(ctx, ServiceRoom, http.MethodDelete, fmt.Sprintf("/directions/%d", id), nil, nil, nil)
}
