package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/redact"
	"github.com/phrazzld/todo-api/internal/store"
)

// AvatarURLProvider hands out presigned avatar URLs. signedurl.Client
// implements it.
type AvatarURLProvider interface {
	UploadURL(ctx context.Context, fileKey, contentType string) (string, error)
	DownloadURL(ctx context.Context, fileKey string) (string, error)
}

// RegisterInput carries a sign-up request. FileKey and MimeType are optional
// and default to the configured avatar.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	FileKey  string
	MimeType string
}

// Registration is the result of a successful sign-up.
type Registration struct {
	User *domain.User
	// UploadURL is where the client PUTs the avatar image.
	UploadURL string
}

// UserService provides sign-up and profile lookups.
type UserService interface {
	// Register creates the user and its avatar record and returns a presigned
	// upload URL for the avatar. No user is created when the URL cannot be
	// obtained.
	Register(ctx context.Context, in RegisterInput) (*Registration, error)

	// GetProfile returns the user's public profile with a download URL for
	// the avatar. An avatar URL failure leaves AvatarURL empty.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users   store.UserStore
	avatars AvatarURLProvider
	cfg     config.AvatarConfig
	logger  *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	users store.UserStore,
	avatars AvatarURLProvider,
	cfg config.AvatarConfig,
	logger *slog.Logger,
) UserService {
	if users == nil || avatars == nil {
		panic("user store and avatar provider are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		users:   users,
		avatars: avatars,
		cfg:     cfg,
		logger:  logger.With("component", "user_service"),
	}
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, in RegisterInput) (*Registration, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(in.Email, in.Username, in.Password)
	if err != nil {
		return nil, err
	}

	fileKey := in.FileKey
	if fileKey == "" {
		fileKey = s.cfg.DefaultFileKey
	}
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = s.cfg.DefaultMimeType
	}

	avatar, err := domain.NewAvatar(user.ID, domain.UniqueFileKey(fileKey), mimeType)
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.avatars.UploadURL(ctx, avatar.FileKey, avatar.MimeType)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to get avatar upload url",
			"error", redact.Error(err),
			"file_key", avatar.FileKey)
		return nil, fmt.Errorf("%w: %w", ErrAvatarUnavailable, err)
	}

	if err := s.users.Create(ctx, user, avatar); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register existing email")
		} else {
			log.Error("failed to save user",
				"error", redact.Error(err),
				"user_id", user.ID)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered",
		"user_id", user.ID,
		"file_key", avatar.FileKey)

	return &Registration{User: user, UploadURL: uploadURL}, nil
}

// GetProfile implements UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile.FileKey == "" {
		return profile, nil
	}

	avatarURL, err := s.avatars.DownloadURL(ctx, profile.FileKey)
	if err != nil {
		log.Warn("avatar url unavailable, returning profile without it",
			"error", redact.Error(err),
			"user_id", userID)
		return profile, nil
	}
	profile.AvatarURL = avatarURL

	return profile, nil
}
