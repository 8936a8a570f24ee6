package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(embedded, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		b, err := fs.ReadFile(embedded, migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		body := string(b)
		assert.True(t, strings.Contains(body, "-- +goose Up"), "%s lacks an Up section", e.Name())
		assert.True(t, strings.Contains(body, "-- +goose Down"), "%s lacks a Down section", e.Name())
	}
}

func TestUsersTableHasUniqueEmail(t *testing.T) {
	b, err := fs.ReadFile(embedded, migrationsDir+"/00001_create_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(b), "email         TEXT NOT NULL UNIQUE")
}
