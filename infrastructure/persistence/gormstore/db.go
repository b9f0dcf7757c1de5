// Package gormstore GORM 仓储实现，支持 MySQL 与 PostgreSQL
package gormstore

import (
	"context"
	"fmt"
	"time"

	"carmarket/config"
	"carmarket/infrastructure/persistence/gormstore/po"
	"carmarket/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 10 * time.Minute
	DefaultConnMaxIdleTime = 5 * time.Minute
)

// Models 需要迁移的全部表
var Models = []interface{}{
	&po.CategoryPO{},
	&po.MakePO{},
	&po.VehicleModelPO{},
	&po.ListingPO{},
	&po.ReviewPO{},
	&po.FavoritePO{},
	&po.RecentlyViewedPO{},
	&po.DealerPO{},
	&po.OutboxEventPO{},
}

// MySQLDSN builds the go-sql-driver DSN
func MySQLDSN(c config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&collation=utf8mb4_unicode_ci&readTimeout=10s&writeTimeout=10s",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// PostgresDSN builds the pgx keyword/value DSN
func PostgresDSN(c config.DatabaseConfig) string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.Username, c.Password, c.Database, sslMode)
}

// Dialector picks the GORM driver for database.type
func Dialector(c config.DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		return mysql.Open(MySQLDSN(c)), nil
	case "postgres":
		return postgres.Open(PostgresDSN(c)), nil
	default:
		return nil, fmt.Errorf("unsupported database type for gorm: %q", c.Type)
	}
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug", "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}

// Open connects, configures the pool and optionally migrates the schema
func Open(ctx context.Context, c config.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	dialector, err := Dialector(c)
	if err != nil {
		return nil, err
	}

	logOpts := logger.DefaultSQLLogOptions()
	if c.SlowThreshold > 0 {
		logOpts.SlowThreshold = c.SlowThreshold
	}
	gormLogger := logger.NewSQLLogger(parseLogLevel(logLevel), logOpts)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	maxOpen := orDefault(c.MaxOpenConns, DefaultMaxOpenConns)
	maxIdle := min(orDefault(c.MaxIdleConns, DefaultMaxIdleConns), maxOpen)
	lifetime := c.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)
	sqlDB.SetConnMaxIdleTime(DefaultConnMaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected",
		zap.String("type", c.Type),
		zap.String("host", c.Host),
		zap.String("database", c.Database),
		zap.Int("max_open_conns", maxOpen),
		zap.Int("max_idle_conns", maxIdle),
		zap.Duration("conn_max_lifetime", lifetime),
	)

	if c.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(Models...); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		logger.Info("Database schema migrated", zap.Int("tables", len(Models)))
	}

	return db, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
