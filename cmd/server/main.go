package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"postboard/internal/app"
	"postboard/internal/platform/config"
	"postboard/internal/platform/httpserver"
	"postboard/internal/platform/logger"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	if cfg.JWTSigningKeyGenerated {
		log.Warn("JWT_SIGNING_KEY not set; using a random per-process key, tokens will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}

	srv := httpserver.New(cfg.Addr, application.Router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting postboard",
			"addr", cfg.Addr,
			"seed_demo_data", cfg.SeedDemoData,
			"protect_post_mutations", cfg.ProtectPostMutations,
		)
		return httpserver.Run(gctx, srv, cfg.ShutdownTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
