package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/vovakirdan/skillhub/internal/store"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

// New opens the SQLite database at dbPath and applies pending migrations.
// Use ":memory:" for a throwaway store.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps an
	// in-memory database alive across queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations applies all pending migrations from the embedded file system.
func runMigrations(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== KV implementation ====

// Get returns the value stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert key %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}

// Clear removes every key.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("clear kv: %w", err)
	}
	return nil
}

// ==== UserStore implementation ====

const userColumns = `id, firstname, lastname, email, password_hash, universite, bio, role, status,
		avatar, is_mentor, selected_direction_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*store.User, error) {
	var user store.User
	var directionID sql.NullInt64
	err := row.Scan(
		&user.ID,
		&user.Firstname,
		&user.Lastname,
		&user.Email,
		&user.PasswordHash,
		&user.Universite,
		&user.Bio,
		&user.Role,
		&user.Status,
		&user.Avatar,
		&user.IsMentor,
		&directionID,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if directionID.Valid {
		user.SelectedDirectionID = &directionID.Int64
	}
	return &user, nil
}

// CreateUser creates a new user.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *store.User) (*store.User, error) {
	query := `
		INSERT INTO users (firstname, lastname, email, password_hash, universite, bio, role, status, avatar, is_mentor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	role := user.Role
	if role == "" {
		role = "USER"
	}
	status := user.Status
	if status == "" {
		status = "STUDENT"
	}
	result, err := s.db.ExecContext(ctx, query,
		user.Firstname, user.Lastname, user.Email, user.PasswordHash,
		user.Universite, user.Bio, role, status, user.Avatar, user.IsMentor,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", email, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// ListUsers lists all users ordered by ID.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*store.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*store.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// UpdateUser applies the non-nil fields of update.
func (s *SQLiteStore) UpdateUser(ctx context.Context, id int64, update store.UserUpdate) (*store.User, error) {
	query := `
		UPDATE users SET
			firstname             = COALESCE(?, firstname),
			lastname              = COALESCE(?, lastname),
			email                 = COALESCE(?, email),
			password_hash         = COALESCE(?, password_hash),
			universite            = COALESCE(?, universite),
			bio                   = COALESCE(?, bio),
			avatar                = COALESCE(?, avatar),
			status                = COALESCE(?, status),
			is_mentor             = COALESCE(?, is_mentor),
			selected_direction_id = COALESCE(?, selected_direction_id)
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		update.Firstname, update.Lastname, update.Email, update.PasswordHash,
		update.Universite, update.Bio, update.Avatar, update.Status,
		update.IsMentor, update.SelectedDirectionID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("user %d: %w", id, store.ErrNotFound)
	}

	return s.GetUserByID(ctx, id)
}

// ==== DirectionStore implementation ====

// CreateDirection creates a new direction.
func (s *SQLiteStore) CreateDirection(ctx context.Context, name, description string) (*store.Direction, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO directions (name, description) VALUES (?, ?)`, name, description)
	if err != nil {
		return nil, fmt.Errorf("insert direction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return &store.Direction{ID: id, Name: name, Description: description}, nil
}

// ListDirections lists all directions ordered by ID.
func (s *SQLiteStore) ListDirections(ctx context.Context) ([]*store.Direction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM directions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query directions: %w", err)
	}
	defer rows.Close()

	var directions []*store.Direction
	for rows.Next() {
		var d store.Direction
		if err := rows.Scan(&d.ID, &d.Name, &d.Description); err != nil {
			return nil, fmt.Errorf("scan direction: %w", err)
		}
		directions = append(directions, &d)
	}

	return directions, rows.Err()
}

// DeleteDirection removes a direction.
func (s *SQLiteStore) DeleteDirection(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM directions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete direction: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("direction %d: %w", id, store.ErrNotFound)
	}
	return nil
}

// ==== RoomStore implementation ====

const roomColumns = `r.id, r.direction_id, r.name, r.description, r.is_private, r.created_at`

func scanRooms(rows *sql.Rows) ([]*store.Room, error) {
	defer rows.Close()

	var rooms []*store.Room
	for rows.Next() {
		var room store.Room
		if err := rows.Scan(&room.ID, &room.DirectionID, &room.Name, &room.Description, &room.IsPrivate, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, rows.Err()
}

// CreateRoom creates a new room. A non-zero room.ID is kept, which lets
// seed data reuse well-known IDs.
func (s *SQLiteStore) CreateRoom(ctx context.Context, room *store.Room) (*store.Room, error) {
	var id any
	if room.ID != 0 {
		id = room.ID
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, direction_id, name, description, is_private)
		VALUES (?, ?, ?, ?, ?)
	`, id, room.DirectionID, room.Name, room.Description, room.IsPrivate)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetRoomByID(ctx, newID)
}

// GetRoomByID retrieves a room by ID.
func (s *SQLiteStore) GetRoomByID(ctx context.Context, id int64) (*store.Room, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms r WHERE r.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query room: %w", err)
	}
	rooms, err := scanRooms(rows)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("room %d: %w", id, store.ErrNotFound)
	}
	return rooms[0], nil
}

// ListRoomsByDirection lists the rooms of a direction.
func (s *SQLiteStore) ListRoomsByDirection(ctx context.Context, directionID int64) ([]*store.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms r WHERE r.direction_id = ? ORDER BY r.id ASC`, directionID)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	return scanRooms(rows)
}

// ListUserRooms lists the rooms a user belongs to.
func (s *SQLiteStore) ListUserRooms(ctx context.Context, userID int64) ([]*store.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms r
		JOIN room_members rm ON r.id = rm.room_id
		WHERE rm.user_id = ?
		ORDER BY r.id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query user rooms: %w", err)
	}
	return scanRooms(rows)
}

// DeleteRoom removes a room and its memberships.
func (s *SQLiteStore) DeleteRoom(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM room_members WHERE room_id = ?`, id); err != nil {
		return fmt.Errorf("delete room members: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("room %d: %w", id, store.ErrNotFound)
	}

	return tx.Commit()
}

// AddMember adds a user to a room.
func (s *SQLiteStore) AddMember(ctx context.Context, userID, roomID int64, role store.RoomRole) (*store.RoomMember, error) {
	query := `
		INSERT OR IGNORE INTO room_members (user_id, room_id, role)
		VALUES (?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, userID, roomID, role); err != nil {
		return nil, fmt.Errorf("insert room member: %w", err)
	}

	return s.getMember(ctx, userID, roomID)
}

func (s *SQLiteStore) getMember(ctx context.Context, userID, roomID int64) (*store.RoomMember, error) {
	query := `
		SELECT rm.user_id, rm.room_id, TRIM(COALESCE(u.firstname, '') || ' ' || COALESCE(u.lastname, '')), rm.role, rm.joined_at
		FROM room_members rm
		LEFT JOIN users u ON u.id = rm.user_id
		WHERE rm.user_id = ? AND rm.room_id = ?
	`
	var m store.RoomMember
	err := s.db.QueryRowContext(ctx, query, userID, roomID).Scan(&m.UserID, &m.RoomID, &m.Name, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("member %d of room %d: %w", userID, roomID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query member: %w", err)
	}
	return &m, nil
}

// RemoveMember removes a user from a room.
func (s *SQLiteStore) RemoveMember(ctx context.Context, userID, roomID int64) error {
	query := `
		DELETE FROM room_members
		WHERE user_id = ? AND room_id = ?
	`
	if _, err := s.db.ExecContext(ctx, query, userID, roomID); err != nil {
		return fmt.Errorf("delete room member: %w", err)
	}

	return nil
}

// IsMember checks if user is a member of the room.
func (s *SQLiteStore) IsMember(ctx context.Context, userID, roomID int64) (bool, error) {
	query := `
		SELECT 1 FROM room_members
		WHERE user_id = ? AND room_id = ?
	`
	var exists int
	err := s.db.QueryRowContext(ctx, query, userID, roomID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query membership: %w", err)
	}

	return true, nil
}

// ListMembers lists all members of a room.
func (s *SQLiteStore) ListMembers(ctx context.Context, roomID int64) ([]*store.RoomMember, error) {
	query := `
		SELECT rm.user_id, rm.room_id, TRIM(COALESCE(u.firstname, '') || ' ' || COALESCE(u.lastname, '')), rm.role, rm.joined_at
		FROM room_members rm
		LEFT JOIN users u ON u.id = rm.user_id
		WHERE rm.room_id = ?
		ORDER BY rm.joined_at ASC, rm.user_id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []*store.RoomMember
	for rows.Next() {
		var m store.RoomMember
		if err := rows.Scan(&m.UserID, &m.RoomID, &m.Name, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}
