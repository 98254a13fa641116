package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aegis/internal/app"
	"aegis/internal/config"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	logger := log.New(os.Stdout, "", log.LstdFlags)
	if err := run(logger); err != nil {
		logger.Printf("level=error msg=%q", err.Error())
		os.Exit(1)
	}
}

func run(logger *log.Logger) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return fmt.Errorf("invalid HTTP port: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer func() {
		err = errors.Join(err, cleanup())
	}()

	logger.Printf("level=info msg=\"starting server\" app=%s env=%s addr=%s", cfg.App.AppName, cfg.App.Environment, addr)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Fiber.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Printf("level=info msg=\"shutting down\" timeout=%s", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Fiber.ShutdownWithContext(shutdownCtx)
}
