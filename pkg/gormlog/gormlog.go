// Package gormlog routes gorm's SQL logging through zap.
package gormlog

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

func New(logger *zap.Logger, level string, slowThreshold time.Duration) gormLogger.Interface {
	return gormLogger.New(&zapWriter{logger: logger.Named("gorm")},
		gormLogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  ParseLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
}

// ParseLevel maps a config string onto a gorm log level. Unknown values mean warn.
func ParseLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}

type zapWriter struct {
	logger *zap.Logger
}

func (z *zapWriter) Printf(format string, args ...interface{}) {
	z.logger.Info(fmt.Sprintf(format, args...))
}
