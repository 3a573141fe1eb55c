package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/auth"
	"github.com/vovakirdan/skillhub/internal/config"
	"github.com/vovakirdan/skillhub/internal/log"
	"github.com/vovakirdan/skillhub/internal/membership"
	"github.com/vovakirdan/skillhub/internal/mock"
	"github.com/vovakirdan/skillhub/internal/session"
	"github.com/vovakirdan/skillhub/internal/store/sqlite"
)

// Client is the assembled client core: durable state, service clients,
// offline fallback, membership and the session facade.
type Client struct {
	Transport  *api.Client
	Auth       *api.AuthAPI
	Users      *api.UserAPI
	Rooms      api.RoomService
	Directions api.DirectionService
	Content    *api.ContentAPI
	Offline    *mock.Provider
	Tracker    *membership.Tracker
	Navigator  *session.RouteNavigator
	Session    *session.Facade

	state *sqlite.SQLiteStore
	log   *zerolog.Logger
}

// NewClient wires the client core from configuration. The caller owns the
// result and must Close it.
func NewClient(cfg *config.Config, logger *zerolog.Logger) (*Client, error) {
	state, err := sqlite.New(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}

	transport := api.NewClient(api.Options{
		UserURL:    cfg.UserServiceURL,
		RoomURL:    cfg.RoomServiceURL,
		ContentURL: cfg.ContentServiceURL,
		Timeout:    cfg.RequestTimeout,
		Logger:     log.Component(logger, "transport"),
	})

	authAPI := api.NewAuthAPI(transport)
	users := api.NewUserAPI(transport)
	offline := mock.New(state)

	var rooms api.RoomService = api.NewRoomAPI(transport)
	var directions api.DirectionService = api.NewDirectionAPI(transport)
	if cfg.OfflineFallback {
		fallbackLog := log.Component(logger, "fallback")
		rooms = api.NewRoomFallback(rooms, offline, fallbackLog)
		directions = api.NewDirectionFallback(directions, offline, fallbackLog)
	}

	creds := session.NewCredentialStore(state, log.Component(logger, "credentials"))
	tracker := membership.NewTracker(rooms, log.Component(logger, "membership"))
	navigator := session.NewRouteNavigator(session.RouteLogin)

	facade := session.New(session.Options{
		Storage:     state,
		Credentials: creds,
		Preferences: session.NewPreferences(state, log.Component(logger, "preferences")),
		Auth:        authAPI,
		Users:       users,
		Resolver:    auth.NewResolver(users, creds, log.Component(logger, "identity")),
		Tracker:     tracker,
		Navigator:   navigator,
		ProfileSync: cfg.ProfileSync,
		Logger:      log.Component(logger, "session"),
	})

	transport.SetCredentials(creds)
	transport.OnUnauthorized(facade.HandleUnauthorized)

	return &Client{
		Transport:  transport,
		Auth:       authAPI,
		Users:      users,
		Rooms:      rooms,
		Directions: directions,
		Content:    api.NewContentAPI(transport),
		Offline:    offline,
		Tracker:    tracker,
		Navigator:  navigator,
		Session:    facade,
		state:      state,
		log:        logger,
	}, nil
}

// Bootstrap restores the stored session. A restored user lands on the
// dashboard so that a later rejected credential routes back to login.
func (c *Client) Bootstrap(ctx context.Context) session.State {
	state := c.Session.Bootstrap(ctx)
	if state == session.Authenticated {
		c.Navigator.Navigate(session.RouteDashboard)
	}
	return state
}

// Close waits for background refreshes and releases the state database.
func (c *Client) Close() error {
	c.Session.Wait()
	if err := c.state.Close(); err != nil {
		c.log.Warn().Err(err).Msg("failed to close state")
		return err
	}
	return nil
}
