// File: cmd/identity-service/main.go
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/storecraft/identity-service/internal/app"
	"github.com/storecraft/identity-service/internal/config"
	"github.com/storecraft/identity-service/internal/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	application, err := app.New(context.Background(), cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to start application", zap.Error(err))
	}
	if err := application.Run(); err != nil {
		zapLogger.Fatal("application exited with error", zap.Error(err))
	}
}
