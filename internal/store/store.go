package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// KV is a durable string key/value store. The client keeps its credential,
// preferences and offline datasets in it, the way a browser keeps them in
// localStorage.
type KV interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error
}

// User represents a registered member of the demo backend.
type User struct {
	ID                  int64
	Firstname           string
	Lastname            string
	Email               string
	PasswordHash        string
	Universite          string
	Bio                 string
	Role                string
	Status              string
	Avatar              string
	IsMentor            bool
	SelectedDirectionID *int64
	CreatedAt           time.Time
}

// UserUpdate lists the profile fields a user may change. Nil fields are kept.
type UserUpdate struct {
	Firstname           *string
	Lastname            *string
	Email               *string
	PasswordHash        *string
	Universite          *string
	Bio                 *string
	Avatar              *string
	Status              *string
	IsMentor            *bool
	SelectedDirectionID *int64
}

// Direction is a top-level topic category.
type Direction struct {
	ID          int64
	Name        string
	Description string
}

// Room is a community space nested under a direction.
type Room struct {
	ID          int64
	DirectionID int64
	Name        string
	Description string
	IsPrivate   bool
	CreatedAt   time.Time
}

// RoomRole defines the role of a member inside a room.
type RoomRole string

const (
	RoomRoleOwner  RoomRole = "OWNER"
	RoomRoleAdmin  RoomRole = "ADMIN"
	RoomRoleMember RoomRole = "MEMBER"
)

// Valid reports whether r is a known role.
func (r RoomRole) Valid() bool {
	switch r {
	case RoomRoleOwner, RoomRoleAdmin, RoomRoleMember:
		return true
	default:
		return false
	}
}

// RoomMember represents room membership.
type RoomMember struct {
	UserID   int64
	RoomID   int64
	Name     string
	Role     RoomRole
	JoinedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser inserts a user and returns the stored record.
	CreateUser(ctx context.Context, user *User) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// ListUsers lists all users ordered by ID.
	ListUsers(ctx context.Context) ([]*User, error)

	// UpdateUser applies the non-nil fields of update.
	UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error)
}

// DirectionStore handles direction persistence.
type DirectionStore interface {
	CreateDirection(ctx context.Context, name, description string) (*Direction, error)
	ListDirections(ctx context.Context) ([]*Direction, error)
	DeleteDirection(ctx context.Context, id int64) error
}

// RoomStore handles room and membership persistence.
type RoomStore interface {
	// CreateRoom creates a new room.
	CreateRoom(ctx context.Context, room *Room) (*Room, error)

	// GetRoomByID retrieves a room by ID.
	GetRoomByID(ctx context.Context, id int64) (*Room, error)

	// ListRoomsByDirection lists the rooms of a direction.
	ListRoomsByDirection(ctx context.Context, directionID int64) ([]*Room, error)

	// ListUserRooms lists the rooms a user belongs to.
	ListUserRooms(ctx context.Context, userID int64) ([]*Room, error)

	// DeleteRoom removes a room and its memberships.
	DeleteRoom(ctx context.Context, id int64) error

	// AddMember adds a user to a room. Joining twice keeps the first role.
	AddMember(ctx context.Context, userID, roomID int64, role RoomRole) (*RoomMember, error)

	// RemoveMember removes a user from a room.
	RemoveMember(ctx context.Context, userID, roomID int64) error

	// IsMember checks if user is a member of the room.
	IsMember(ctx context.Context, userID, roomID int64) (bool, error)

	// ListMembers lists all members of a room.
	ListMembers(ctx context.Context, roomID int64) ([]*RoomMember, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	KV
	UserStore
	DirectionStore
	RoomStore

	// Close closes the underlying database connection.
	Close() error
}
