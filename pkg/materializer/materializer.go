package materializer

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/modelbase/modelbase/pkg/schema"
)

// Materializer issues idempotent table creation for declarations.
type Materializer struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Materializer {
	return &Materializer{db: db}
}

// Materialize ensures the declaration's table exists. When the table is
// already present it does nothing, whatever shape the table has; it never
// alters or drops. Any storage error is fatal to the publish action.
func (m *Materializer) Materialize(decl *schema.Declaration) error {
	tableName, err := decl.TableName()
	if err != nil {
		return err
	}

	if m.db.Migrator().HasTable(tableName) {
		return nil
	}

	ddl, err := CreateTable(decl)
	if err != nil {
		return err
	}

	if err := m.db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("materialize %s: %w", decl.Name, err)
	}
	return nil
}
