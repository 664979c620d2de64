package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/config"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/logger"
	"github.com/SitNav/Market-1.0-sub000/internal/server"
	"github.com/SitNav/Market-1.0-sub000/internal/services/auth"
	"github.com/SitNav/Market-1.0-sub000/internal/storage"
)

func main() {
	zl, err := logger.Init(logger.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()
	log := zl.Sugar()

	if err := run(log); err != nil {
		log.Errorw("terranav api stopped", "err", err)
		zl.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	images, err := storage.FromConfig(cfg)
	if err != nil {
		return err
	}
	log.Infow("image storage ready", "driver", cfg.StorageConfig.Driver)

	app := server.New(cfg, server.Deps{
		DB:       pool,
		Pinger:   pool,
		Images:   images,
		Identity: auth.NewTelegramProvider(cfg.TelegramConfig.BotToken, cfg.TelegramConfig.AuthMaxAge),
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Infow("terranav api listening", "port", cfg.Port, "env", cfg.AppEnv)
		errCh <- app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
