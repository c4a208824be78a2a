package app

import (
	"context"
	"errors"

	"go-leave/internal/config"
	"go-leave/internal/database"
	"go-leave/internal/middleware"
	"go-leave/internal/realtime"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, applies migrations and mounts every
// module on router. The returned cleanup waits for queued notifications and
// closes connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	log := logger.Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	log.Info("database connection established")

	if err := database.RunMigrations(sqlDB, log); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis, cfg.Database.MaxRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		log.Info("redis connection established")
	} else {
		log.Warn("redis disabled; live events stay on this instance and idempotency keys are ignored")
	}

	relayCtx, stopRelay := context.WithCancel(ctx)
	hub := realtime.NewHub(logger)
	live := livePublisher(relayCtx, hub, rdb, logger)

	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))

	mods, err := registerModules(router, cfg, sqlDB, gormDB, rdb, live, hub, logger)
	if err != nil {
		stopRelay()
		_ = sqlDB.Close()
		return nil, err
	}

	cleanup := func() {
		mods.dispatcher.Wait()
		stopRelay()
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = sqlDB.Close()
	}
	return cleanup, nil
}

// livePublisher fans events out through redis when it is configured so every
// API instance's hub receives them.
func livePublisher(ctx context.Context, hub *realtime.Hub, rdb *redis.Client, logger *zap.Logger) realtime.Publisher {
	if rdb == nil {
		return hub
	}

	broadcaster := realtime.NewRedisBroadcaster(rdb, hub, logger)
	go func() {
		if err := broadcaster.Relay(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("live event relay stopped", zap.Error(err))
		}
	}()
	return broadcaster
}
