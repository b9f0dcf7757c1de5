package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carmarket/infrastructure/persistence"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// maxLoggedSQL 搜索语句的 IN 列表可能很长，超出部分截断
const maxLoggedSQL = 2048

// SQLLogOptions GORM 日志选项
type SQLLogOptions struct {
	SlowThreshold time.Duration
	// SkipNotFound 详情页 404 属于正常流量，不记为错误
	SkipNotFound bool
	MaxSQLLength int
}

// DefaultSQLLogOptions returns the options used by gormstore.Open
func DefaultSQLLogOptions() SQLLogOptions {
	return SQLLogOptions{
		SlowThreshold: 200 * time.Millisecond,
		SkipNotFound:  true,
		MaxSQLLength:  maxLoggedSQL,
	}
}

// SQLLogger 把 GORM 日志写入全局 zap logger，带上 request_id
type SQLLogger struct {
	level gormlogger.LogLevel
	opts  SQLLogOptions
	base  *zap.Logger
}

// NewSQLLogger 以当前全局 logger 为底座；Init 之前调用时日志被丢弃
func NewSQLLogger(level gormlogger.LogLevel, opts SQLLogOptions) *SQLLogger {
	base := log
	if base == nil {
		base = zap.NewNop()
	}
	if opts.MaxSQLLength <= 0 {
		opts.MaxSQLLength = maxLoggedSQL
	}
	return &SQLLogger{level: level, opts: opts, base: base.With(zap.String("component", "gorm"))}
}

// LogMode implements gormlogger.Interface
func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *SQLLogger) forContext(ctx context.Context) *zap.Logger {
	if id := persistence.RequestIDFromContext(ctx); id != "" {
		return l.base.With(zap.String("request_id", id))
	}
	return l.base
}

func (l *SQLLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.forContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *SQLLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.forContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *SQLLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.forContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

// Trace 错误 > 慢查询 > 普通查询，只输出其中一条
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	if err != nil && l.opts.SkipNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
		return
	}

	elapsed := time.Since(begin)
	slow := l.opts.SlowThreshold > 0 && elapsed > l.opts.SlowThreshold
	switch {
	case err != nil && l.level >= gormlogger.Error:
	case slow && l.level >= gormlogger.Warn:
	case l.level >= gormlogger.Info:
	default:
		return
	}

	sql, rows := fc()
	if len(sql) > l.opts.MaxSQLLength {
		sql = sql[:l.opts.MaxSQLLength] + "...(truncated)"
	}
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}
	log := l.forContext(ctx)

	switch {
	case err != nil && l.level >= gormlogger.Error:
		log.Error("Database operation failed", append(fields, zap.Error(err))...)
	case slow && l.level >= gormlogger.Warn:
		log.Warn("Slow SQL query", append(fields, zap.Duration("threshold", l.opts.SlowThreshold))...)
	default:
		log.Info("SQL query executed", fields...)
	}
}

var _ gormlogger.Interface = (*SQLLogger)(nil)
