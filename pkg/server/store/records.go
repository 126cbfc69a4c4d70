package store

import (
	"errors"

	"github.com/modelbase/modelbase/pkg/schema"
)

// ErrRecordNotFound is returned when a record doesn't exist
var ErrRecordNotFound = errors.New("record not found")

// RecordsStore abstracts row operations against materialized tables. Every
// method takes the declaration because the physical table and the value
// coercions are derived from it on each call.
type RecordsStore interface {
	// ListRecords returns all records ordered by descending creation time.
	ListRecords(decl *schema.Declaration) ([]schema.Record, error)

	// GetRecord retrieves one record by id.
	// Returns ErrRecordNotFound if no row exists.
	GetRecord(decl *schema.Declaration, id string) (schema.Record, error)

	// InsertRecord stores a new record under the given id and returns the
	// stored row, including server-maintained columns and applied defaults.
	InsertRecord(decl *schema.Declaration, id string, record schema.Record) (schema.Record, error)

	// UpdateRecord merges the given fields into an existing row, refreshes
	// its update timestamp and returns the stored row.
	// Returns ErrRecordNotFound if no row exists.
	UpdateRecord(decl *schema.Declaration, id string, record schema.Record) (schema.Record, error)

	// DeleteRecord removes one record by id.
	// Returns ErrRecordNotFound if no row exists.
	DeleteRecord(decl *schema.Declaration, id string) error
}
