package main

import (
	"log"

	"go-leave/internal/app"
	"go-leave/internal/config"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/logger"

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

	apperror.Init()

	if err := app.RunConsumer(cfg, zl); err != nil {
		zl.Fatal("run consumer failed", zap.Error(err))
	}
}
