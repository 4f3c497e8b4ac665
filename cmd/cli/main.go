package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/fastbite/fastbite/internal/client/cli"
	"github.com/fastbite/fastbite/internal/client/config"
	"github.com/fastbite/fastbite/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
