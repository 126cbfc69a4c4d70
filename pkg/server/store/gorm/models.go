package gorm

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/modelbase/modelbase/pkg/model"
	"github.com/modelbase/modelbase/pkg/schema"
	"github.com/modelbase/modelbase/pkg/server/store"
)

// Ensure ModelsStore implements store.ModelsStore
var _ store.ModelsStore = (*ModelsStore)(nil)

// ModelsStore implements store.ModelsStore using GORM
type ModelsStore struct {
	db *gorm.DB
}

// NewModelsStore creates a new ModelsStore
func NewModelsStore(db *gorm.DB) *ModelsStore {
	return &ModelsStore{db: db}
}

// SaveModel persists a declaration, overwriting any existing one of the same
// name.
func (s *ModelsStore) SaveModel(decl *schema.Declaration) error {
	raw, err := json.Marshal(decl)
	if err != nil {
		return fmt.Errorf("encode declaration %q: %w", decl.Name, err)
	}

	return s.db.Exec(
		`INSERT INTO model_definitions (name, definition, created_at, updated_at)
		 VALUES (?, ?::jsonb, now(), now())
		 ON CONFLICT (name) DO UPDATE SET definition = EXCLUDED.definition, updated_at = now()`,
		decl.Name, string(raw),
	).Error
}

// LoadModel retrieves a declaration by name.
func (s *ModelsStore) LoadModel(name string) (*schema.Declaration, error) {
	var row model.ModelDefinition
	tx := s.db.Where("name = ?", name).First(&row)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrModelNotFound
		}
		return nil, tx.Error
	}

	decl, err := schema.ParseJSON(row.Definition)
	if err != nil {
		return nil, fmt.Errorf("decode declaration %q: %w", name, err)
	}
	return decl, nil
}

// ListModels returns all stored declarations.
func (s *ModelsStore) ListModels() ([]*schema.Declaration, error) {
	var rows []model.ModelDefinition
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}

	decls := make([]*schema.Declaration, 0, len(rows))
	for _, row := range rows {
		decl, err := schema.ParseJSON(row.Definition)
		if err != nil {
			return nil, fmt.Errorf("decode declaration %q: %w", row.Name, err)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// DeleteModel removes a declaration. Absent names are not an error.
func (s *ModelsStore) DeleteModel(name string) error {
	return s.db.Where("name = ?", name).Delete(&model.ModelDefinition{}).Error
}
