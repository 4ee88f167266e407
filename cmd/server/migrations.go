package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/platform/postgres"
)

// handleMigrations runs the goose command given by -migrate against the
// embedded migrations.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	logger.Info("executing migrations", slog.String("command", command))

	if err := postgres.Migrate(ctx, db, command, logger); err != nil {
		return err
	}

	logger.Info("migrations finished", slog.String("command", command))
	return nil
}
