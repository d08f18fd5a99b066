package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_HasPairedFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestMigrationsFS_DeclaresUniqueConstraints(t *testing.T) {
	b, err := fs.ReadFile(migrationsFS, "migrations/000001_users_sessions.up.sql")
	require.NoError(t, err)

	schema := string(b)
	assert.Contains(t, schema, "UNIQUE (email)")
	assert.Contains(t, schema, "user_id uuid PRIMARY KEY")
}

func TestNewMigrator_InvalidURL(t *testing.T) {
	_, err := NewMigrator("not-a-url")
	assert.Error(t, err)
}
