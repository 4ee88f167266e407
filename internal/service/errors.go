package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/todo-api/internal/store"
)

// Service errors. Callers check them with errors.Is; the API layer maps the
// store.ErrNotFound family to 404.
var (
	// ErrTaskNotFound indicates the task does not exist or belongs to another
	// user. The two cases are deliberately indistinguishable.
	ErrTaskNotFound = fmt.Errorf("%w: task", store.ErrNotFound)

	// ErrAvatarUnavailable indicates the signed URL API could not provide an
	// upload URL during registration.
	ErrAvatarUnavailable = errors.New("avatar storage unavailable")
)
