// Package main is the entry point of the todo API server. It loads the
// configuration, connects to PostgreSQL and either runs a migration command
// or serves the HTTP API until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code.
func run(args []string) int {
	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	migrate := flags.String("migrate", "",
		"run a migration command ("+strings.Join(postgres.MigrationCommands, ", ")+") and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logger: %v\n", err)
		return 1
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Any("allowed_origins", cfg.Server.AllowedOrigins))

	ctx := context.Background()

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		log.Error("database unavailable", slog.String("error", err.Error()))
		return 1
	}

	if *migrate != "" {
		defer closeDB(db, log)
		if err := handleMigrations(ctx, db, *migrate, log); err != nil {
			log.Error("migration failed", slog.String("command", *migrate), slog.String("error", err.Error()))
			return 1
		}
		return 0
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		closeDB(db, log)
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		return 1
	}

	return app.Run(ctx)
}
