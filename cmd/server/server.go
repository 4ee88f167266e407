package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const readHeaderTimeout = 10 * time.Second

// Run serves HTTP until SIGINT or SIGTERM, then shuts the server down and
// closes the database. It returns the process exit code.
func (app *application) Run(ctx context.Context) int {
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		ctx,
		app.config.Server.ShutdownTimeout(),
		map[string]gfshutdown.Operation{
			"http-server": app.shutdown,
		},
	)

	select {
	case err := <-serverErr:
		app.logger.Error("server failed", slog.String("error", err.Error()))
		closeDB(app.db, app.logger)
		return 1
	case code := <-wait:
		app.logger.Info("server stopped", slog.Int("exit_code", code))
		return code
	}
}

// shutdown stops accepting requests, drains in-flight ones and then closes
// the database pool.
func (app *application) shutdown(ctx context.Context) error {
	app.logger.Info("shutting down server")

	var err error
	if app.server != nil {
		if serr := app.server.Shutdown(ctx); serr != nil {
			err = fmt.Errorf("server shutdown failed: %w", serr)
		}
	}

	closeDB(app.db, app.logger)
	return err
}
