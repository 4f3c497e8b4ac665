// Command seed wipes and reloads the reference data (categories,
// customizations, menu items, menu-customization links) and the media bucket.
// Destructive; meant for development and demo environments. Provide an admin
// API key via FASTBITE_API_KEY or -k when client permissions are not enough.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/fastbite/fastbite/internal/client/backend"
	"github.com/fastbite/fastbite/internal/client/config"
	"github.com/fastbite/fastbite/internal/client/seed"
	"github.com/fastbite/fastbite/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := logging.NewTextLogger(os.Stdout, slog.LevelInfo)

	api, err := backend.New(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	seeder, err := seed.New(api, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := seeder.Run(context.Background()); err != nil {
		logger.Error(context.Background(), "seeding failed", "error", err)
		os.Exit(1)
	}
}
