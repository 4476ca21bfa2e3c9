package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"

	"github.com/vncsmyrnk/livepoll/internal/adapters/clock"
	"github.com/vncsmyrnk/livepoll/internal/adapters/handler/http"
	"github.com/vncsmyrnk/livepoll/internal/adapters/handler/ws"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/badger"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/livepoll/internal/config"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
	"github.com/vncsmyrnk/livepoll/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

type stores struct {
	participants ports.ParticipantRepository
	history      ports.HistoryRepository
	close        func() error
}

func openStores(cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		version, err := postgres.MigrateUp(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("postgres store ready", "schema_version", version)
		return &stores{
			participants: postgres.NewParticipantRepository(db),
			history:      postgres.NewHistoryRepository(db),
			close:        db.Close,
		}, nil
	default:
		db, err := badger.Open(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		logger.Info("badger store ready", "path", cfg.BadgerPath)
		return &stores{
			participants: badger.NewParticipantRepository(db),
			history:      badger.NewHistoryRepository(db),
			close:        db.Close,
		}, nil
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logs.GetLoggerFromString(cfg.LogLevel)

	st, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.New()
	hub := ws.NewHub(logger)
	registry := services.NewRegistry(ctx, st.participants, hub, logger)
	history := services.NewHistoryStore(ctx, st.history, clk, logger)
	session := services.NewSessionService(registry, history, hub, clk, logger)

	handler := http.NewHandler(
		http.NewQuestionHandler(session),
		http.NewParticipantHandler(session),
		ws.NewHandler(hub, session, cfg.AllowedOrigins, cfg.ClientBuffer, logger),
		cfg.AllowedOrigins,
	)
	server := &stdhttp.Server{Addr: cfg.Addr(), Handler: handler}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr(), "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
