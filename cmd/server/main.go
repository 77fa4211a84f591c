package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/cache"
	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/embedding"
	"github.com/hey-granth/profile-guard/internal/logger"
	"github.com/hey-granth/profile-guard/internal/seed"
	"github.com/hey-granth/profile-guard/internal/server"
	"github.com/hey-granth/profile-guard/internal/service/guard"
	"github.com/hey-granth/profile-guard/internal/service/prompts"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	embedder, err := embedding.New(cfg)
	if err != nil {
		log.Error("failed to init embedder", "err", err)
		os.Exit(1)
	}

	// Inject logger into app context
	appCtx := app.New(database, redisCache, log, embedder, cfg.Policy)

	if err := prompts.NewService(appCtx).EnsureDefaults(ctx); err != nil {
		log.Error("failed to install prompt questions", "err", err)
		os.Exit(1)
	}

	if cfg.App.ENV == "development" {
		if _, err := seed.Run(ctx, appCtx, seed.Options{}); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	grpcServer := server.NewGRPCServer(log, guard.NewRegistrar(appCtx))

	sqlDB, err := database.DB()
	if err != nil {
		log.Error("failed to get sql handle", "err", err)
		os.Exit(1)
	}
	httpServer := server.NewHTTPServer(cfg, server.NewHealthRouter(
		server.Check{Name: "db", Ping: sqlDB.PingContext},
		server.Check{Name: "redis", Ping: redisCache.Ping},
	))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting gRPC server", "addr", cfg.GRPC.Host+":"+cfg.GRPC.Port)
		return server.StartGRPCServer(cfg, grpcServer)
	})
	g.Go(func() error {
		log.Info("starting HTTP health server", "addr", httpServer.Addr)
		return server.ServeHTTP(httpServer)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}
