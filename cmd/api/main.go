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

	"github.com/angelmondragon/casecraft-backend/api/routes"
	"github.com/angelmondragon/casecraft-backend/internal/catalog"
	"github.com/angelmondragon/casecraft-backend/internal/designs"
	"github.com/angelmondragon/casecraft-backend/internal/orders"
	"github.com/angelmondragon/casecraft-backend/internal/pricing"
	"github.com/angelmondragon/casecraft-backend/internal/session"
	"github.com/angelmondragon/casecraft-backend/internal/uploads"
	"github.com/angelmondragon/casecraft-backend/pkg/config"
	"github.com/angelmondragon/casecraft-backend/pkg/db"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	"github.com/angelmondragon/casecraft-backend/pkg/metrics"
	"github.com/angelmondragon/casecraft-backend/pkg/migrate"
	"github.com/angelmondragon/casecraft-backend/pkg/redis"
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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sessionMetrics := metrics.NewSessionMetrics(promReg)

	cat := catalog.DefaultService()
	table := pricing.DefaultTable()

	designSvc, err := designs.NewService(designs.ServiceParams{
		Repo:    designs.NewRepository(dbClient.DB()),
		Catalog: cat,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create design service", err)
		os.Exit(1)
	}

	orderSvc, err := orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(dbClient.DB()),
		Designs: designSvc,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create order service", err)
		os.Exit(1)
	}

	disk, err := uploads.NewDiskStore(cfg.Media.UploadDir)
	if err != nil {
		logg.Error(ctx, "failed to prepare upload directory", err)
		os.Exit(1)
	}
	uploadSvc, err := uploads.NewService(uploads.ServiceParams{
		Store:        disk,
		PublicPrefix: cfg.Media.PublicPrefix,
		MaxBytes:     cfg.Media.MaxUploadBytes(),
		Logger:       logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create upload service", err)
		os.Exit(1)
	}

	committer := designs.Committer(designSvc)
	submitter := orders.Submitter(orderSvc)
	registry, err := session.NewRegistry(func(id string) (*session.Engine, error) {
		return session.NewEngine(session.Params{
			ID:      id,
			Pricing: table,
			Designs: committer,
			Orders:  submitter,
			Logger:  logg,
			Metrics: sessionMetrics,
		})
	}, session.RegistryConfig{
		IdleTTL:     cfg.Session.IdleTTL,
		MaxSessions: cfg.Session.MaxSessions,
	}, logg, sessionMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create session registry", err)
		os.Exit(1)
	}
	go registry.Run(ctx, cfg.Session.SweepInterval)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Store:    redisClient,
			Catalog:  cat,
			Pricing:  table,
			Designs:  designSvc,
			Orders:   orderSvc,
			Uploads:  uploadSvc,
			Sessions: registry,
			Gatherer: promReg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}
}
