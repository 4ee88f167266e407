package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyFileKey    = errors.New("file key cannot be empty")
	ErrInvalidMimeType = errors.New("invalid MIME type")
)

// Avatar links a user to the object key of their picture in the upload service.
type Avatar struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FileKey   string    `json:"file_key"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAvatar creates an avatar record for userID.
func NewAvatar(userID uuid.UUID, fileKey, mimeType string) (*Avatar, error) {
	avatar := &Avatar{
		ID:        uuid.New(),
		UserID:    userID,
		FileKey:   fileKey,
		MimeType:  mimeType,
		CreatedAt: time.Now().UTC(),
	}

	if err := avatar.Validate(); err != nil {
		return nil, err
	}

	return avatar, nil
}

// Validate checks the avatar's fields.
func (a *Avatar) Validate() error {
	if a.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrEmptyUserID)
	}
	if strings.TrimSpace(a.FileKey) == "" {
		return NewValidationError("file_key", "cannot be empty", ErrEmptyFileKey)
	}
	if !IsMimeType(a.MimeType) {
		return NewValidationError("mime_type", "must look like type/subtype", ErrInvalidMimeType)
	}
	return nil
}

// UniqueFileKey appends a random suffix so that two users never share an object key.
func UniqueFileKey(base string) string {
	return base + "-" + uuid.NewString()
}

// IsMimeType reports whether s has the shape type/subtype.
func IsMimeType(s string) bool {
	major, minor, ok := strings.Cut(s, "/")
	return ok && major != "" && minor != "" && !strings.Contains(minor, "/") &&
		!strings.ContainsAny(s, " \t\r\n")
}

// Profile is the public view of a user returned to the owner.
type Profile struct {
	UserID    uuid.UUID
	Username  string
	Email     string
	FileKey   string
	AvatarURL string
}
