package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		body, err := fs.ReadFile(migrations, f)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", f)
		assert.Contains(t, string(body), "-- +goose Down", f)
	}
}

func TestMigrations_InitSchema(t *testing.T) {
	body, err := fs.ReadFile(migrations, "migrations/00001_init.sql")
	require.NoError(t, err)
	sql := string(body)

	for _, table := range []string{"users", "news", "ads", "status_history"} {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table+" (")
		assert.Contains(t, sql, "DROP TABLE IF EXISTS "+table+";")
	}

	// approved_at must only be set alongside a decision.
	assert.Equal(t, 2, strings.Count(sql, "CHECK ((approved IS NULL) = (approved_at IS NULL))"))
	// Decisions are nullable; published is not.
	assert.Contains(t, sql, "approved    BOOLEAN,")
	assert.Contains(t, sql, "published   BOOLEAN NOT NULL DEFAULT FALSE")
}

func TestSetupGoose(t *testing.T) {
	assert.NoError(t, setupGoose())
}
