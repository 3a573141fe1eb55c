package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/auth"
	"github.com/vovakirdan/skillhub/internal/config"
	"github.com/vovakirdan/skillhub/internal/mock"
	"github.com/vovakirdan/skillhub/internal/store"
	"github.com/vovakirdan/skillhub/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/skillhub/internal/transport/http"
)

// App runs the demo backend: the user and room services in one process.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the demo backend with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	if err := SeedCatalog(context.Background(), st, logger); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	jwtConfig := &auth.JWTConfig{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTTTL,
	}
	authService := auth.NewService(st, jwtConfig)
	server := transporthttp.NewServer(authService, st, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}, nil
}

// SeedCatalog fills an empty database with the offline directions and rooms,
// so the demo backend and offline mode show the same catalogue.
func SeedCatalog(ctx context.Context, st store.Store, logger *zerolog.Logger) error {
	existing, err := st.ListDirections(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, d := range mock.DefaultDirections() {
		if _, err := st.CreateDirection(ctx, d.Name, d.Description); err != nil {
			return fmt.Errorf("direction %q: %w", d.Name, err)
		}
	}
	rooms := mock.DefaultRooms()
	for _, r := range rooms {
		_, err := st.CreateRoom(ctx, &store.Room{
			ID:          r.ID,
			DirectionID: r.DirectionID,
			Name:        r.Name,
			Description: r.Description,
			IsPrivate:   r.IsPrivate,
		})
		if err != nil {
			return fmt.Errorf("room %q: %w", r.Name, err)
		}
	}

	logger.Info().Int("directions", len(mock.DefaultDirections())).Int("rooms", len(rooms)).Msg("catalog seeded")
	return nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("demo backend listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
