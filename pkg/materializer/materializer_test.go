package materializer

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return gormDB, mock
}

func TestMaterializeCreatesMissingTable(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM information_schema\.tables`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "invoices"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := New(db).Materialize(invoiceDecl())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterializeIsNoOpWhenTableExists(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM information_schema\.tables`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := New(db).Materialize(invoiceDecl())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterializeSurfacesStorageErrors(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM information_schema\.tables`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "invoices"`)).
		WillReturnError(assert.AnError)

	err := New(db).Materialize(invoiceDecl())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "materialize Invoice")
}
