package main

import (
	"context"
	"log"

	"go-leave/internal/app"
	"go-leave/internal/bootstrap"
	"go-leave/internal/config"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/audit"
	"go-leave/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	if err := cfg.Validate(); err != nil {
		zl.Fatal("invalid config", zap.Error(err))
	}

	apperror.Init()
	r := gin.New()
	r.Use(gin.Recovery())

	// build dependency + routes
	cleanup, err := app.BuildApp(context.Background(), r, cfg, zl)
	if err != nil {
		zl.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(r, cfg.Server, audit.NewStdoutLogger(zl), cleanup)
}
