package endpoints

import (
	"crypto/sha256"
	"encoding/json"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/schema"
	"github.com/modelbase/modelbase/pkg/server"
	"github.com/modelbase/modelbase/pkg/token"
)

// NewTestServer creates a server instance for testing.
// It requires a running PostgreSQL database with migrations applied.
func NewTestServer(dbURL string, tokenKey []byte) (*server.Server, error) {
	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		return nil, err
	}

	signer, err := token.NewSigner(tokenKey, 0)
	if err != nil {
		return nil, err
	}

	s := server.NewServer(db, config.Get(), signer, "127.0.0.1", "0")
	RegisterAll(s)

	return s, nil
}

// SetupTestUser creates a user with a known API key, overwriting any
// previous fixture under the same login.
func SetupTestUser(db *gorm.DB, login, role, apiKey string) error {
	digest := sha256.Sum256([]byte(apiKey))

	return db.Exec(`
		INSERT INTO users (login, role, api_key_digest, created_at) VALUES (?, ?, ?, now())
		ON CONFLICT (login) DO UPDATE SET role = EXCLUDED.role, api_key_digest = EXCLUDED.api_key_digest
	`, login, role, digest[:]).Error
}

// CreateTestModel stores a declaration fixture.
func CreateTestModel(db *gorm.DB, decl *schema.Declaration) error {
	raw, err := json.Marshal(decl)
	if err != nil {
		return err
	}

	return db.Exec(`
		INSERT INTO model_definitions (name, definition, created_at, updated_at)
		VALUES (?, ?::jsonb, now(), now())
		ON CONFLICT (name) DO UPDATE SET definition = EXCLUDED.definition, updated_at = now()
	`, decl.Name, string(raw)).Error
}

// CleanupTestData removes declaration fixtures and drops their materialized
// tables.
func CleanupTestData(db *gorm.DB, decls ...*schema.Declaration) {
	for _, decl := range decls {
		if table, err := decl.TableName(); err == nil {
			db.Exec(`DROP TABLE IF EXISTS "` + table + `"`)
		}
		db.Exec(`DELETE FROM model_definitions WHERE name = ?`, decl.Name)
	}
}

// CleanupTestUser removes a user fixture.
func CleanupTestUser(db *gorm.DB, login string) {
	db.Exec(`DELETE FROM users WHERE login = ?`, login)
}
