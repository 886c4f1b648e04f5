package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomhub/roomhub-server/internal/auth"
	"github.com/roomhub/roomhub-server/internal/broker"
	"github.com/roomhub/roomhub-server/internal/broker/rabbit"
	"github.com/roomhub/roomhub-server/internal/config"
	"github.com/roomhub/roomhub-server/internal/core"
	"github.com/roomhub/roomhub-server/internal/store"
	"github.com/roomhub/roomhub-server/internal/store/mongo"
	transporthttp "github.com/roomhub/roomhub-server/internal/transport/http"
)

// App wires together core, storage, broker, and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	broker          broker.Broker
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("database", cfg.MongoDatabase).Msg("document store connected")

	br, err := rabbit.New(cfg.BrokerURL, logger)
	if err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("init broker: %w", err)
	}

	validator := auth.NewValidator(&auth.JWTConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    24 * time.Hour,
	})

	hub := core.NewHub(ctx, st, validator, br, cfg.HistoryLimit, logger)
	server := transporthttp.NewServer(hub, st, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		broker:          br,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	// Externally originated room messages re-enter through the hub's
	// persist-and-broadcast path.
	if err := a.broker.Subscribe(broker.TopicRoomMessages, a.hub.HandleBrokerMessage); err != nil {
		a.cleanup(ctx)
		return fmt.Errorf("subscribe room messages: %w", err)
	}

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup(ctx)
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup(shutdownCtx)
			return err
		}

		a.cleanup(shutdownCtx)
		return <-serverErr
	}
}

// cleanup closes the broker and document store.
func (a *App) cleanup(ctx context.Context) {
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close broker")
		} else {
			a.log.Info().Msg("broker closed")
		}
	}
	if a.store != nil {
		if err := a.store.Close(ctx); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
