package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/capitalcare/care-console/internal/api"
	"github.com/capitalcare/care-console/internal/cache"
	"github.com/capitalcare/care-console/internal/core/service"
	"github.com/capitalcare/care-console/internal/infrastructure/config"
	mongodb "github.com/capitalcare/care-console/internal/infrastructure/db/mongo"
	redisdb "github.com/capitalcare/care-console/internal/infrastructure/db/redis"
	"github.com/capitalcare/care-console/internal/session"
	"github.com/capitalcare/care-console/internal/upstream"
	"github.com/capitalcare/care-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	care := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, logger.With("upstream"))

	tokens := session.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	sessions := redisdb.NewSessionRepository(rdb, cfg.SessionTTL)
	store := session.NewStore(sessions, care, tokens, logger.With("session"))

	activity := service.NewActivityService(mongodb.NewActivityRepository(mongoDB), logger.With("activity"))

	// Any 401 from the care backend kills the session that carried the token,
	// so the browser is forced back through login.
	care.OnUnauthorized(func(ctx context.Context, sid string) {
		_ = store.Invalidate(ctx, sid)
		activity.Record(ctx, "session_invalidated", "", 0)
	})
	mirrors := cache.NewSet(care.Tickets(), care.Clients(), care.Routers(), care.Sites(), care.Users(), logger.With("cache"))
	links := redisdb.NewSiteLinkRepository(rdb)

	e := api.NewRouter(api.Deps{
		Log:      log,
		Store:    store,
		Tokens:   tokens,
		Auth:     care,
		Tickets:  care.Tickets(),
		Routers:  care.Routers(),
		Users:    care.Users(),
		Mirrors:  mirrors,
		Links:    links,
		Activity: activity,
		Redis:    rdb,
		Mongo:    mongoDB,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("console gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
