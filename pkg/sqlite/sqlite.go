package sqlite

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const memoryPath = ":memory:"

type Config struct {
	Path string
}

// NewConnection opens a SQLite database at cfg.Path. An in-memory database
// lives on a single connection, so the pool is pinned to one.
func NewConnection(cfg Config, gormLog gormLogger.Interface, logger *zap.Logger) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}

	db, err := gorm.Open(sqlite.Open(withPragmas(path)), &gorm.Config{Logger: gormLog})
	if err != nil {
		logger.Error("Failed to open sqlite database", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if isMemory(path) {
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Info("Opened sqlite database", zap.String("path", path))

	return db, nil
}

func isMemory(path string) bool {
	return path == memoryPath || strings.Contains(path, "mode=memory")
}

func withPragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}
