package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/auth"
	"github.com/oggyb/skilllink/internal/cache"
	"github.com/oggyb/skilllink/internal/config"
	"github.com/oggyb/skilllink/internal/db"
	"github.com/oggyb/skilllink/internal/logger"
	"github.com/oggyb/skilllink/internal/server"
)

func main() {
	os.Exit(run())
}

// run owns every resource so deferred cleanup happens before the process exits.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		return 1
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return 1
	}
	defer db.Close(database)

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("redis unavailable, serving from database only", "err", err)
	}
	defer redisCache.Close()

	// Inject logger and credentials into app context
	appCtx := app.New(database, redisCache, log, auth.NewCredentials(cfg))

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	router := server.NewRouter(cfg, appCtx, server.Registrars(appCtx)...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting HTTP server", "addr", cfg.HTTP.Host+":"+cfg.HTTP.Port)
		return server.StartHTTPServer(gctx, cfg, router)
	})
	g.Go(func() error {
		log.Info("starting gRPC health server", "addr", cfg.GRPC.Host+":"+cfg.GRPC.Port)
		return server.StartGRPCServer(gctx, cfg, appCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "err", err)
		return 1
	}
	log.Info("shutdown complete")
	return 0
}
