package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"ecomlens/internal/bootstrap"
	"ecomlens/internal/cli"
	"ecomlens/internal/config"
	"ecomlens/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	// Keep the terminal readable: only warnings reach stderr by default.
	if cfg.Log.File == "" {
		cfg.Log.Level = "warn"
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("cannot configure logging: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx := context.Background()
	// The terminal keeps one login until an explicit logout.
	cfg.Session.TTL = 0

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("cannot open stores: %v", err)
	}
	defer stores.Close()

	usersSvc, err := bootstrap.NewUsers(cfg, stores, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	studioSvc, err := bootstrap.NewStudio(ctx, cfg, usersSvc, nil, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := cli.NewApp(usersSvc, studioSvc, cfg.Export.Dir, os.Stdin, os.Stdout, logger)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
