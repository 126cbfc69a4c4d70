package gorm

import (
	"gorm.io/gorm"

	"github.com/modelbase/modelbase/pkg/materializer"
	"github.com/modelbase/modelbase/pkg/schema"
	"github.com/modelbase/modelbase/pkg/server/store"
)

// Ensure RecordsStore implements store.RecordsStore
var _ store.RecordsStore = (*RecordsStore)(nil)

// RecordsStore implements store.RecordsStore using GORM. Statements are
// built per call from the declaration; there is no per-model state here.
type RecordsStore struct {
	db *gorm.DB
}

// NewRecordsStore creates a new RecordsStore
func NewRecordsStore(db *gorm.DB) *RecordsStore {
	return &RecordsStore{db: db}
}

// ListRecords returns all records, newest first.
func (s *RecordsStore) ListRecords(decl *schema.Declaration) ([]schema.Record, error) {
	query, err := materializer.SelectAll(decl)
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	if err := s.db.Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]schema.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, decl.DecodeRow(row))
	}
	return records, nil
}

// GetRecord retrieves one record by id.
func (s *RecordsStore) GetRecord(decl *schema.Declaration, id string) (schema.Record, error) {
	query, err := materializer.SelectByID(decl)
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	if err := s.db.Raw(query, id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrRecordNotFound
	}
	return decl.DecodeRow(rows[0]), nil
}

// InsertRecord stores a new record and reads it back, so the caller sees
// server-maintained timestamps and storage-applied defaults.
func (s *RecordsStore) InsertRecord(decl *schema.Declaration, id string, record schema.Record) (schema.Record, error) {
	stmt, args, err := materializer.Insert(decl, id, record)
	if err != nil {
		return nil, err
	}
	if err := s.db.Exec(stmt, args...).Error; err != nil {
		return nil, err
	}
	return s.GetRecord(decl, id)
}

// UpdateRecord merges fields into an existing record and reads it back.
func (s *RecordsStore) UpdateRecord(decl *schema.Declaration, id string, record schema.Record) (schema.Record, error) {
	stmt, args, err := materializer.Update(decl, id, record)
	if err != nil {
		return nil, err
	}

	tx := s.db.Exec(stmt, args...)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrRecordNotFound
	}
	return s.GetRecord(decl, id)
}

// DeleteRecord removes one record by id.
func (s *RecordsStore) DeleteRecord(decl *schema.Declaration, id string) error {
	stmt, err := materializer.Delete(decl)
	if err != nil {
		return err
	}

	tx := s.db.Exec(stmt, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrRecordNotFound
	}
	return nil
}
