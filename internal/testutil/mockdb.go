// Package testutil provides helpers shared by repository and use case tests.
//
// Repository tests run against go-sqlmock so they need no live database:
//
//	db, mock := testutil.NewMockDB(t)
//	mock.ExpectExec("INSERT INTO credentials").WillReturnResult(sqlmock.NewResult(1, 1))
//
// End-to-end tests use a live database configured through TEST_POSTGRES_DSN or
// TEST_MYSQL_DSN:
//
//	db := testutil.SetupDB(t, "postgres")
//	defer testutil.TeardownDB(t, db)
package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewMockDB returns a sqlmock-backed *sql.DB. Expectations are verified and the
// connection is closed when the test finishes.
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "unmet sql expectations")
		_ = db.Close()
	})

	return db, mock
}

// UUIDBytes returns the BINARY(16) representation MySQL repositories bind for id.
func UUIDBytes(t *testing.T, id uuid.UUID) []byte {
	t.Helper()

	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}
