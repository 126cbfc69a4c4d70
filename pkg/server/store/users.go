package store

import (
	"errors"

	"github.com/modelbase/modelbase/pkg/model"
)

// ErrUserNotFound is returned when a user doesn't exist
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when creating a user under a taken login
var ErrUserExists = errors.New("user already exists")

// UsersStore abstracts identity storage operations
type UsersStore interface {
	// CreateUser creates a user with a fresh API key and returns the key's
	// plaintext, which is never stored or shown again.
	CreateUser(login, role string) (string, error)

	// GetUser retrieves a user by login.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUser(login string) (*model.User, error)

	// ValidateAPIKey validates an API key against the stored digest.
	ValidateAPIKey(user *model.User, apiKey []byte) bool

	// RotateAPIKey generates and stores a new API key for a user, returning
	// the new plaintext.
	RotateAPIKey(login string) (string, error)
}
