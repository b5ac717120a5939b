package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_AppliesAllMigrations(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Run(db))

	version, err := GetCurrentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, AllMigrations[len(AllMigrations)-1].Version, version)

	// auth column from migration 1
	_, err = db.Exec(`INSERT INTO history_slots (method, slot, auth) VALUES ('a.B/C', 1, '{}')`)
	require.NoError(t, err)
}

func TestRun_Idempotent(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, len(AllMigrations), count)
}

func TestInitSchema_SlotRange(t *testing.T) {
	db := openDB(t)
	require.NoError(t, InitSchema(db))

	_, err := db.Exec(`INSERT INTO history_slots (method, slot) VALUES ('a.B/C', 6)`)
	assert.Error(t, err)
}
