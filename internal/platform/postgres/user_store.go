package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const (
	insertUserQuery = `
		INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	insertAvatarQuery = `
		INSERT INTO avatars (id, user_id, file_key, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	selectUserColumns = `SELECT id, email, username, password_hash, created_at, updated_at FROM users`

	profileQuery = `
		SELECT u.id, u.username, u.email, COALESCE(a.file_key, '')
		FROM users u
		LEFT JOIN avatars a ON a.user_id = u.id
		WHERE u.id = $1
	`
)

// PostgresUserStore implements store.UserStore on PostgreSQL.
type PostgresUserStore struct {
	db         *sql.DB
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresUserStore creates a user store on db that hashes passwords with
// the given bcrypt cost. Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewPostgresUserStore(db *sql.DB, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create.
// On success user.HashedPassword is set and user.Password is cleared.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User, avatar *domain.Avatar) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user == nil || avatar == nil {
		return domain.NewValidationError("user", "user and avatar are required", nil)
	}
	if err := user.Validate(); err != nil {
		return err
	}
	if user.Password == "" {
		return domain.NewValidationError("password", "cannot be empty", domain.ErrEmptyPassword)
	}
	if err := avatar.Validate(); err != nil {
		return err
	}
	if avatar.UserID != user.ID {
		return domain.NewValidationError("avatar.user_id", "must match the user", domain.ErrInvalidID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertUserQuery,
			user.ID,
			user.Email,
			user.Username,
			string(hash),
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return store.ErrEmailExists
			}
			return MapError(err)
		}

		_, err = tx.ExecContext(ctx, insertAvatarQuery,
			avatar.ID,
			avatar.UserID,
			avatar.FileKey,
			avatar.MimeType,
			avatar.CreatedAt,
		)
		return MapError(err)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
		} else {
			log.Error("failed to create user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			err = store.NewStoreError("user", "create", "failed to insert user and avatar", err)
		}
		return err
	}

	user.HashedPassword = string(hash)
	user.Password = ""

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("avatar_key", avatar.FileKey))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := domain.RequireID("user_id", id); err != nil {
		return nil, err
	}
	return s.getOne(ctx, selectUserColumns+` WHERE id = $1`, id)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.NewValidationError("email", "cannot be empty", domain.ErrEmptyEmail)
	}
	return s.getOne(ctx, selectUserColumns+` WHERE email = $1`, email)
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "failed to read user", MapError(err))
	}

	return &user, nil
}

// GetProfile implements store.UserStore.GetProfile.
func (s *PostgresUserStore) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.RequireID("user_id", id); err != nil {
		return nil, err
	}

	var profile domain.Profile
	err := s.db.QueryRowContext(ctx, profileQuery, id).Scan(
		&profile.UserID,
		&profile.Username,
		&profile.Email,
		&profile.FileKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, store.NewStoreError("user", "get_profile", "failed to read profile", MapError(err))
	}

	return &profile, nil
}
