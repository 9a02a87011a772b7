package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NormalizeMySQLDSN forces the driver options the ledger depends on:
// DATETIME columns scan into time.Time in UTC.
func NormalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MYSQL_DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// NewGormMySQL opens a gorm handle on MySQL and verifies it with a ping,
// retried like NewPgxPool when waitForDB is set.
func NewGormMySQL(ctx context.Context, dsn string, logLevel string, waitForDB bool) (*gorm.DB, error) {
	normalized, err := NormalizeMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(gormmysql.Open(normalized), &gorm.Config{
		// every ledger write runs in an explicit transaction
		SkipDefaultTransaction: true,
		Logger:                 gormLogger(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	attempts := 1
	if waitForDB {
		attempts = connectAttempts
	}
	if err := pingWithRetry(ctx, sqlDB.PingContext, attempts); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	slog.Info("Successfully connected to MySQL database.")
	return db, nil
}

// CloseGormDB closes the connection pool behind db.
func CloseGormDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
		slog.Info("MySQL connection pool closed.")
	}
}

func gormLogger(level string) logger.Interface {
	switch level {
	case "debug":
		return logger.Default.LogMode(logger.Info)
	case "info", "warn":
		return logger.Default.LogMode(logger.Warn)
	default:
		return logger.Default.LogMode(logger.Error)
	}
}
