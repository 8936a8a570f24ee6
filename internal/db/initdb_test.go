package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDBName(t *testing.T) {
	tests := []struct {
		name    string
		conn    string
		want    string
		wantErr bool
	}{
		{name: "url", conn: "postgres://u:p@localhost:5432/accounts?sslmode=disable", want: "accounts"},
		{name: "postgresql scheme", conn: "postgresql://localhost/other", want: "other"},
		{name: "key value", conn: "host=localhost user=u dbname=accounts sslmode=disable", want: "accounts"},
		{name: "url without db", conn: "postgres://localhost:5432", wantErr: true},
		{name: "key value without db", conn: "host=localhost user=u", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractDBName(tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceDBName(t *testing.T) {
	got, err := replaceDBName("postgres://u:p@localhost:5432/accounts?sslmode=disable", "postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/postgres?sslmode=disable", got)

	got, err = replaceDBName("host=localhost dbname=accounts sslmode=disable", "postgres")
	require.NoError(t, err)
	assert.Equal(t, "host=localhost dbname=postgres sslmode=disable", got)
}

func TestEnsureDatabase(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT 1 FROM pg_database").
			WithArgs("accounts").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		created, err := ensureDatabase(context.Background(), db, "accounts")
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT 1 FROM pg_database").
			WithArgs("accounts").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
		mock.ExpectExec(`CREATE DATABASE "accounts"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := ensureDatabase(context.Background(), db, "accounts")
		require.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lookup fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT 1 FROM pg_database").WillReturnError(sql.ErrConnDone)

		_, err = ensureDatabase(context.Background(), db, "accounts")
		require.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrConnDone))
	})
}
