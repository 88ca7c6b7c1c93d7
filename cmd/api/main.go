package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/karaoke-backend/api/routes"
	"github.com/angelmondragon/karaoke-backend/internal/bills"
	"github.com/angelmondragon/karaoke-backend/internal/booking"
	"github.com/angelmondragon/karaoke-backend/internal/catalog"
	"github.com/angelmondragon/karaoke-backend/internal/customers"
	"github.com/angelmondragon/karaoke-backend/internal/dashboard"
	"github.com/angelmondragon/karaoke-backend/internal/discounts"
	"github.com/angelmondragon/karaoke-backend/internal/rooms"
	"github.com/angelmondragon/karaoke-backend/pkg/config"
	"github.com/angelmondragon/karaoke-backend/pkg/db"
	"github.com/angelmondragon/karaoke-backend/pkg/env"
	"github.com/angelmondragon/karaoke-backend/pkg/instance"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
	"github.com/angelmondragon/karaoke-backend/pkg/metrics"
	"github.com/angelmondragon/karaoke-backend/pkg/migrate"
	"github.com/angelmondragon/karaoke-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	loc, err := cfg.App.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to load time zone", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured; idempotency keys are not enforced")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	conn := dbClient.DB()
	roomRepo := rooms.NewRepository(conn)
	billRepo := bills.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)

	engine, err := booking.NewEngine(booking.Deps{
		Tx:        dbClient,
		Rooms:     roomRepo,
		Customers: customers.NewRepository(conn),
		Bills:     billRepo,
		Policies:  discounts.NewRepository(conn),
		Catalog:   catalogRepo,
		Metrics:   metrics.NewBookingMetrics(registry),
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create booking engine", err)
		os.Exit(1)
	}
	roomSvc, err := rooms.NewService(roomRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create rooms service", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	dashboardSvc, err := dashboard.NewService(roomSvc, billRepo, loc)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Dialect(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Gatherer:  registry,
			Engine:    engine,
			Rooms:     roomSvc,
			Catalog:   catalogSvc,
			Dashboard: dashboardSvc,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		exitCode = 1
	}
	logg.Info(ctx, "api server stopped")
	os.Exit(exitCode)
}
