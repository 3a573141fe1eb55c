package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/auth"
	"github.com/vovakirdan/skillhub/internal/config"
	"github.com/vovakirdan/skillhub/internal/membership"
	"github.com/vovakirdan/skillhub/internal/store"
	"github.com/vovakirdan/skillhub/internal/utils"
)

var (
	// ErrNoCredential is returned when login or register yields no token.
	ErrNoCredential = errors.New("session: backend returned no credential")
	// ErrNotAuthenticated is returned by operations that need a signed-in user.
	ErrNotAuthenticated = errors.New("session: not authenticated")
)

// State is the bootstrap state of the session.
type State int

const (
	Loading State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ProfileUpdate lists the profile fields to change. Nil fields are kept.
type ProfileUpdate = api.UserUpdate

// AuthClient performs credential exchanges.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
}

// UserClient reads and writes profiles.
type UserClient interface {
	GetUser(ctx context.Context, id int64) (*api.User, error)
	UpdateUser(ctx context.Context, id int64, update api.UserUpdate) (*api.User, error)
}

// IdentityResolver turns a credential into a profile.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*api.User, error)
}

// Options configures a Facade.
type Options struct {
	Storage     store.KV
	Credentials *CredentialStore
	Preferences *Preferences
	Auth        AuthClient
	Users       UserClient
	Resolver    IdentityResolver
	Tracker     *membership.Tracker
	Navigator   Navigator
	ProfileSync config.ProfileSync
	Logger      *zerolog.Logger
}

// Facade is the single entry point to the session. Only the facade writes
// the credential and the identity; callers read them through its getters.
type Facade struct {
	storage   store.KV
	creds     *CredentialStore
	prefs     *Preferences
	auth      AuthClient
	users     UserClient
	resolver  IdentityResolver
	tracker   *membership.Tracker
	nav       Navigator
	writeSync bool
	log       *zerolog.Logger

	mu           sync.RWMutex
	state        State
	bootstrapped bool
	user         *api.User
	draft        api.UserUpdate

	wg sync.WaitGroup
}

// New creates a facade in the Loading state.
func New(opts Options) *Facade {
	logger := orNop(opts.Logger)
	creds := opts.Credentials
	if creds == nil {
		creds = NewCredentialStore(opts.Storage, logger)
	}
	prefs := opts.Preferences
	if prefs == nil {
		prefs = NewPreferences(opts.Storage, logger)
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = auth.NewResolver(opts.Users, creds, logger)
	}
	return &Facade{
		storage:   opts.Storage,
		creds:     creds,
		prefs:     prefs,
		auth:      opts.Auth,
		users:     opts.Users,
		resolver:  resolver,
		tracker:   opts.Tracker,
		nav:       opts.Navigator,
		writeSync: opts.ProfileSync == config.ProfileSyncWriteThrough,
		log:       logger,
		state:     Loading,
	}
}

// Bootstrap restores the session from the stored credential. It runs once;
// later calls return the current state.
func (f *Facade) Bootstrap(ctx context.Context) State {
	f.mu.Lock()
	if f.bootstrapped {
		state := f.state
		f.mu.Unlock()
		return state
	}
	f.bootstrapped = true
	f.mu.Unlock()

	token, ok := f.creds.Credential(ctx)
	if !ok {
		return f.settle(Unauthenticated, nil)
	}

	user, err := f.resolver.Resolve(ctx, token)
	if err != nil {
		f.log.Info().Err(err).Msg("stored credential rejected")
		// A revoked credential was already cleared, possibly replaced.
		if !errors.Is(err, auth.ErrCredentialRevoked) {
			if errClear := f.creds.ClearCredential(ctx); errClear != nil {
				f.log.Warn().Err(errClear).Msg("clear credential failed")
			}
		}
		return f.settle(Unauthenticated, nil)
	}

	f.mergeDirection(ctx, user)
	if f.tracker != nil {
		f.tracker.Refresh(ctx, user.ID)
	}
	return f.settle(Authenticated, user)
}

// settle leaves Loading unless something else already moved the session on.
func (f *Facade) settle(state State, user *api.User) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Loading {
		f.state = state
		f.user = user
		if state == Authenticated {
			f.log.Info().Int64("user_id", user.ID).Msg("session restored")
		}
	}
	return f.state
}

// Login exchanges email and password for a session.
func (f *Facade) Login(ctx context.Context, email, password string) (*api.User, error) {
	resp, err := f.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	user, err := f.establish(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	f.mergeDirection(ctx, user)
	return f.activate(user), nil
}

// Register creates an account and signs it in. A new account starts without
// a selected direction.
func (f *Facade) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	resp, err := f.auth.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := f.establish(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if user.DisplayName() == "" {
		user.Firstname = strings.TrimSpace(req.Firstname)
		user.Lastname = strings.TrimSpace(req.Lastname)
	}
	user.Name = user.DisplayName()
	if user.Name == "" {
		user.Name = utils.PlaceholderName()
	}
	if user.Email == "" {
		user.Email = req.Email
	}

	user.SelectedDirectionID = nil
	if err := f.prefs.ClearSelectedDirection(ctx, user.ID); err != nil {
		f.log.Warn().Err(err).Int64("user_id", user.ID).Msg("reset selected direction failed")
	}
	return f.activate(user), nil
}

// establish persists the credential and settles on an identity: the inline
// user when it carries an ID, otherwise the resolver's answer. Without an
// identity the credential is removed again.
func (f *Facade) establish(ctx context.Context, resp *api.AuthResponse) (*api.User, error) {
	if resp == nil || strings.TrimSpace(resp.Token) == "" {
		return nil, ErrNoCredential
	}
	if err := f.creds.SetCredential(ctx, resp.Token); err != nil {
		return nil, err
	}

	if resp.User != nil && resp.User.ID != 0 {
		return resp.User.Clone(), nil
	}

	user, err := f.resolver.Resolve(ctx, resp.Token)
	if err != nil {
		if errClear := f.creds.ClearCredential(ctx); errClear != nil {
			f.log.Warn().Err(errClear).Msg("clear credential failed")
		}
		return nil, err
	}
	return user, nil
}

// activate installs user and refreshes membership in the background.
func (f *Facade) activate(user *api.User) *api.User {
	if user.Name == "" {
		user.Name = user.DisplayName()
	}

	f.mu.Lock()
	f.user = user
	f.draft = api.UserUpdate{}
	f.state = Authenticated
	f.bootstrapped = true
	f.mu.Unlock()

	f.log.Info().Int64("user_id", user.ID).Msg("signed in")

	if f.tracker != nil {
		f.tracker.Bind(user.ID)
		f.wg.Add(1)
		go func(userID int64) {
			defer f.wg.Done()
			f.tracker.Refresh(context.Background(), userID)
		}(user.ID)
	}
	return user.Clone()
}

// Wait blocks until background membership refreshes have finished.
func (f *Facade) Wait() {
	f.wg.Wait()
}

// mergeDirection makes the locally stored direction authoritative. Without
// one the identity carries no direction, whatever the profile says.
func (f *Facade) mergeDirection(ctx context.Context, user *api.User) {
	id, ok := f.prefs.SelectedDirection(ctx, user.ID)
	if !ok {
		user.SelectedDirectionID = nil
		return
	}
	user.SelectedDirectionID = &id
}

// Logout drops the credential, the identity and the membership set.
func (f *Facade) Logout(ctx context.Context) error {
	err := f.creds.ClearCredential(ctx)
	f.clearSession()
	f.log.Info().Msg("signed out")
	return err
}

func (f *Facade) clearSession() {
	f.mu.Lock()
	f.user = nil
	f.draft = api.UserUpdate{}
	f.state = Unauthenticated
	f.bootstrapped = true
	f.mu.Unlock()

	if f.tracker != nil {
		f.tracker.Reset()
	}
}

// HandleUnauthorized reacts to a 401 from any backend call. It matches
// api.UnauthorizedFunc.
func (f *Facade) HandleUnauthorized(ctx context.Context, path string) {
	f.log.Warn().Str("path", path).Msg("credential rejected by backend")

	if err := f.creds.ClearCredential(ctx); err != nil {
		f.log.Warn().Err(err).Msg("clear credential failed")
	}
	f.clearSession()

	if f.nav == nil {
		return
	}
	switch f.nav.Current() {
	case RouteLogin, RouteRegister:
	default:
		f.nav.Navigate(RouteLogin)
	}
}

// SelectDirection records the user's direction locally and mirrors it to the
// profile. A failed mirror is logged and the local choice stands.
func (f *Facade) SelectDirection(ctx context.Context, directionID int64) error {
	f.mu.Lock()
	if f.user == nil {
		f.mu.Unlock()
		return ErrNotAuthenticated
	}
	id := directionID
	f.user.SelectedDirectionID = &id
	userID := f.user.ID
	f.mu.Unlock()

	if err := f.prefs.SetSelectedDirection(ctx, userID, directionID); err != nil {
		return err
	}

	if _, err := f.users.UpdateUser(ctx, userID, api.UserUpdate{SelectedDirectionID: &id}); err != nil {
		f.log.Warn().Err(err).Int64("user_id", userID).Int64("direction_id", directionID).Msg("mirror selected direction failed")
	}
	return nil
}

// UpdateUser merges update into the local identity. With write-through
// profile sync it is saved at once; otherwise it waits for SaveProfile.
func (f *Facade) UpdateUser(ctx context.Context, update ProfileUpdate) error {
	f.mu.Lock()
	if f.user == nil {
		f.mu.Unlock()
		return ErrNotAuthenticated
	}
	update.ApplyTo(f.user)
	f.draft = f.draft.Merge(update)
	userID := f.user.ID
	f.mu.Unlock()

	if update.SelectedDirectionID != nil {
		if err := f.prefs.SetSelectedDirection(ctx, userID, *update.SelectedDirectionID); err != nil {
			f.log.Warn().Err(err).Int64("user_id", userID).Msg("persist selected direction failed")
		}
	}

	if f.writeSync {
		_, err := f.SaveProfile(ctx)
		return err
	}
	return nil
}

// PendingChanges reports whether UpdateUser left unsaved fields.
func (f *Facade) PendingChanges() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return !f.draft.Empty()
}

// SaveProfile sends the pending profile changes. On failure they stay pending.
func (f *Facade) SaveProfile(ctx context.Context) (*api.User, error) {
	f.mu.RLock()
	if f.user == nil {
		f.mu.RUnlock()
		return nil, ErrNotAuthenticated
	}
	draft := f.draft
	userID := f.user.ID
	current := f.user.Clone()
	f.mu.RUnlock()

	if draft.Empty() {
		return current, nil
	}

	updated, err := f.users.UpdateUser(ctx, userID, draft)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	if updated.ID == 0 {
		updated.ID = userID
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil || f.user.ID != userID {
		return nil, ErrNotAuthenticated
	}
	if f.user.SelectedDirectionID != nil {
		id := *f.user.SelectedDirectionID
		updated.SelectedDirectionID = &id
	}
	f.user = updated
	f.draft = api.UserUpdate{}
	return updated.Clone(), nil
}

// JoinRoom joins roomID and refreshes membership.
func (f *Facade) JoinRoom(ctx context.Context, roomID int64) error {
	if !f.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return f.tracker.Join(ctx, roomID)
}

// LeaveRoom leaves roomID and refreshes membership.
func (f *Facade) LeaveRoom(ctx context.Context, roomID int64) error {
	if !f.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return f.tracker.Leave(ctx, roomID)
}

// IsMember reports cached membership of roomID.
func (f *Facade) IsMember(roomID int64) bool {
	return f.tracker != nil && f.tracker.IsMember(roomID)
}

// Rooms returns the cached membership set.
func (f *Facade) Rooms() []int64 {
	if f.tracker == nil {
		return nil
	}
	return f.tracker.Rooms()
}

// State returns the bootstrap state.
func (f *Facade) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// User returns a copy of the identity, or nil when signed out.
func (f *Facade) User() *api.User {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.user.Clone()
}

// IsAuthenticated reports whether an identity is established.
func (f *Facade) IsAuthenticated() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state == Authenticated && f.user != nil
}

// Credential returns the stored bearer credential.
func (f *Facade) Credential(ctx context.Context) (string, bool) {
	return f.creds.Credential(ctx)
}

// ResetToDefaults wipes every persisted key, including offline datasets, and
// signs out.
func (f *Facade) ResetToDefaults(ctx context.Context) error {
	f.clearSession()
	if f.storage == nil {
		return f.creds.ClearCredential(ctx)
	}
	if err := f.storage.Clear(ctx); err != nil {
		return fmt.Errorf("reset storage: %w", err)
	}
	return nil
}
