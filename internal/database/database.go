package database

import (
	"context"
	"fmt"

	"github.com/Behyna/transaction-ledger/internal/config"
	"github.com/Behyna/transaction-ledger/internal/model"
	"github.com/Behyna/transaction-ledger/pkg/gormlog"
	"github.com/Behyna/transaction-ledger/pkg/mysql"
	"github.com/Behyna/transaction-ledger/pkg/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	dbCfg := cfg.Database
	gormLog := gormlog.New(logger, dbCfg.LogLevel, dbCfg.SlowThreshold)

	var (
		db  *gorm.DB
		err error
	)

	switch dbCfg.Driver {
	case "mysql":
		db, err = mysql.NewConnection(ctx, mysql.Config{
			Host:            dbCfg.Host,
			Port:            dbCfg.Port,
			User:            dbCfg.User,
			Password:        dbCfg.Password,
			Name:            dbCfg.Name,
			MaxIdleConns:    dbCfg.MaxIdleConns,
			MaxOpenConns:    dbCfg.MaxOpenConns,
			ConnMaxLifetime: dbCfg.ConnMaxLifetime,
			MaxRetries:      dbCfg.MaxRetries,
			RetryDelay:      dbCfg.RetryDelay,
		}, gormLog, logger)
	case "sqlite":
		db, err = sqlite.NewConnection(sqlite.Config{Path: dbCfg.Path}, gormLog, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if dbCfg.AutoMigrate {
		if err := Migrate(db, logger); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates or alters the transactions table to match the model.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(&model.Transaction{}); err != nil {
		logger.Error("Schema migration failed", zap.Error(err))
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("Schema migrated", zap.String("table", model.Transaction{}.TableName()))
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
