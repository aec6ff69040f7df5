package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("pool.db")

	assert.Equal(t, "pool.db", config.Path)
	assert.Equal(t, 4, config.MaxOpenConns)
	assert.Equal(t, 5*time.Second, config.BusyTimeout)
	assert.Equal(t, "WAL", config.JournalMode)
	assert.False(t, config.AutoMigrate)
}

func TestConfig_DSN(t *testing.T) {
	dsn := DefaultConfig("/data/pool.db").dsn()

	require.True(t, strings.HasPrefix(dsn, "/data/pool.db?"), dsn)
	assert.Contains(t, dsn, "busy_timeout%285000%29")
	assert.Contains(t, dsn, "journal_mode%28WAL%29")
	assert.Contains(t, dsn, "foreign_keys%281%29")
}

func TestOpen(t *testing.T) {
	db := openTestDB(t)

	assert.NoError(t, db.Conn().Ping())
	assert.NotNil(t, db.Catalog())

	var fk int
	require.NoError(t, db.Conn().QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "pool.db")

	db, err := Open(DefaultConfig(path))
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)

	_, err = Open(DefaultConfig(""))
	assert.Error(t, err)
}
