package store

import (
	"errors"

	"github.com/modelbase/modelbase/pkg/schema"
)

// ErrModelNotFound is returned when no declaration exists under a name
var ErrModelNotFound = errors.New("model not found")

// ModelsStore abstracts declaration storage operations
type ModelsStore interface {
	// SaveModel persists a declaration. Saving an existing name overwrites
	// it; there is no version history.
	SaveModel(decl *schema.Declaration) error

	// LoadModel retrieves a declaration by name.
	// Returns ErrModelNotFound if no declaration exists.
	LoadModel(name string) (*schema.Declaration, error)

	// ListModels returns all stored declarations, order unspecified.
	ListModels() ([]*schema.Declaration, error)

	// DeleteModel removes a declaration. Deleting an absent name is not an
	// error.
	DeleteModel(name string) error
}
