package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/platform/signedurl"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	clock  func() time.Time

	userStore  store.UserStore
	taskStore  store.TaskStore
	avatarURLs service.AvatarURLProvider

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	taskService      service.TaskService

	server *http.Server
}

// newApplication builds the production dependency graph on db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	avatarURLs, err := signedurl.NewClient(cfg.Avatar, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signed url client: %w", err)
	}

	app := &application{
		config:     cfg,
		logger:     logger,
		db:         db,
		clock:      time.Now,
		userStore:  postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger),
		taskStore:  postgres.NewPostgresTaskStore(db, logger),
		avatarURLs: avatarURLs,
	}

	if err := app.wireServices(); err != nil {
		return nil, err
	}

	logger.Info("application initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.String("signed_url_api", cfg.Avatar.SignedURLAPI))
	return app, nil
}

// wireServices builds the auth and domain services on top of the stores
// already set on app.
func (app *application) wireServices() error {
	jwtService, err := auth.NewJWTServiceWithClock(app.config.Auth, app.clock)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.jwtService = jwtService
	app.passwordVerifier = auth.NewBcryptVerifier()
	app.userService = service.NewUserService(app.userStore, app.avatarURLs, app.config.Avatar, app.logger)
	app.taskService = service.NewTaskService(app.taskStore, app.clock, app.logger)
	return nil
}
