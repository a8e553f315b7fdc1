package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/database"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|reset")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	switch *cmd {
	case "up", "down", "status", "version", "reset":
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, *cmd, logger); err != nil {
		fmt.Fprintf(os.Stderr, "goose %s failed: %v\n", *cmd, err)
		pool.Close()
		os.Exit(1)
	}

	logger.Info().Str("command", *cmd).Msg("migration finished")
}
