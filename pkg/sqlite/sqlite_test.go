package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

func TestNewConnection(t *testing.T) {
	logger := zap.NewNop()
	silent := gormLogger.Discard

	t.Run("in memory pins pool to one connection", func(t *testing.T) {
		db, err := NewConnection(Config{}, silent, logger)
		require.NoError(t, err)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		defer sqlDB.Close()

		assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
		assert.NoError(t, sqlDB.Ping())
	})

	t.Run("file database is usable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")

		db, err := NewConnection(Config{Path: path}, silent, logger)
		require.NoError(t, err)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		defer sqlDB.Close()

		require.NoError(t, db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)").Error)
		assert.FileExists(t, path)
	})
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)", withPragmas("a.db"))
	assert.Equal(t, "file:x?mode=memory&_pragma=busy_timeout(5000)", withPragmas("file:x?mode=memory"))
}
