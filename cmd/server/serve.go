package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/logging"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/realtime"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/router"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, logger, nil
}

func dbOptions(cfg config.Config) database.Options {
	return database.Options{
		Driver:  cfg.DBDriver,
		User:    cfg.DBUser,
		Pass:    cfg.DBPass,
		Host:    cfg.DBHost,
		Port:    cfg.DBPort,
		Name:    cfg.DBName,
		SSLMode: cfg.DBSSLMode,
	}
}

// openStore returns the configured store.  db is nil for the in-memory
// store, which is seeded with the default dining room on start.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, *sqlx.DB, error) {
	if cfg.DBDriver == "memory" {
		store := repository.NewMemoryStore()
		if _, err := database.SeedTables(ctx, store); err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
	db, err := database.Open(dbOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return repository.NewSQLStore(db), db, nil
}

func buildPublishers(cfg config.Config, hub *realtime.Hub) (queue.Publisher, func()) {
	pubs := queue.Multi{hub}
	closeFn := func() {}
	switch cfg.EventsDriver {
	case "rabbitmq":
		pubs = append(pubs, queue.NewRabbitPublisher(cfg.RabbitURL, cfg.EventsQueue))
	case "kafka":
		kp := queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		pubs = append(pubs, kp)
		closeFn = func() { _ = kp.Close() }
	}
	return pubs, closeFn
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if portOverride != "" {
		cfg.Port = portOverride
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	hub := realtime.NewHub(logger)
	events, closeEvents := buildPublishers(cfg, hub)
	defer closeEvents()

	v := service.NewValidator(cfg.Hours)
	opts := []service.Option{service.WithPublisher(events), service.WithLogger(logger)}

	deps := router.Deps{
		Reservations:   handler.NewReservationHandler(service.NewReservationService(store, v, opts...), logger),
		Tables:         handler.NewTableHandler(service.NewTableService(store, v, opts...), logger),
		Floor:          hub.ServeWS,
		Redis:          rdb,
		RateLimit:      config.LoadRateLimitConfig(),
		Cache:          config.LoadCacheConfig(),
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	}
	if db != nil {
		deps.DB = db
	}
	e := router.New(deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error {
		addr := ":" + cfg.Port
		logger.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env),
			slog.String("db", cfg.DBDriver), slog.String("events", cfg.EventsDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	if cfg.AuditConsumer {
		consumer := queue.NewAuditConsumer(cfg.RabbitURL, cfg.EventsQueue, cfg.AuditLogPath, logger)
		g.Go(func() error { return consumer.Run(gctx) })
	}

	return g.Wait()
}
