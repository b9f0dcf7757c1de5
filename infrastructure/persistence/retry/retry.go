// Package retry 事务重试：死锁、锁等待超时、乐观锁冲突在退避后重跑整个事务
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"carmarket/config"
	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence"
	"carmarket/pkg/logger"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reason 失败归类，用于日志与开关判断
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonConflict      Reason = "optimistic_conflict"
	ReasonDeadlock      Reason = "deadlock"
	ReasonLockTimeout   Reason = "lock_timeout"
	ReasonSerialization Reason = "serialization_failure"
	ReasonConnection    Reason = "connection_lost"
	ReasonCustom        Reason = "custom"
)

type Config struct {
	Enabled                       bool
	MaxAttempts                   int
	InitialDelay                  time.Duration
	MaxDelay                      time.Duration
	BackoffFactor                 float64
	JitterEnabled                 bool
	RetryOnConcurrentModification bool
	RetryOnDeadlock               bool
	RetryOnLockTimeout            bool
	RetryPredicate                func(error) bool
}

var DefaultConfig = Config{
	Enabled:                       true,
	MaxAttempts:                   3,
	InitialDelay:                  100 * time.Millisecond,
	MaxDelay:                      2 * time.Second,
	BackoffFactor:                 2.0,
	JitterEnabled:                 true,
	RetryOnConcurrentModification: true,
	RetryOnDeadlock:               true,
	RetryOnLockTimeout:            true,
}

func FromAppConfig(appConfig *config.Config) Config {
	rc := appConfig.Database.Retry
	return Config{
		Enabled:                       rc.Enabled,
		MaxAttempts:                   rc.MaxAttempts,
		InitialDelay:                  rc.InitialDelay,
		MaxDelay:                      rc.MaxDelay,
		BackoffFactor:                 rc.BackoffFactor,
		JitterEnabled:                 rc.JitterEnabled,
		RetryOnConcurrentModification: rc.RetryOnConcurrentModification,
		RetryOnDeadlock:               rc.RetryOnDeadlock,
		RetryOnLockTimeout:            rc.RetryOnLockTimeout,
	}
}

// sqlStater pgconn.PgError 暴露 SQLSTATE 的方式
type sqlStater interface {
	SQLState() string
}

// Classify 归类错误；客户端错误（校验、不存在、冲突、无权限）一律 ReasonNone
func Classify(err error) Reason {
	if err == nil {
		return ReasonNone
	}
	if errors.Is(err, shared.ErrInvalidInput) || errors.Is(err, shared.ErrNotFound) ||
		errors.Is(err, shared.ErrConflict) || errors.Is(err, shared.ErrForbidden) {
		return ReasonNone
	}
	if errors.Is(err, shared.ErrConcurrentModification) {
		return ReasonConflict
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213:
			return ReasonDeadlock
		case 1205:
			return ReasonLockTimeout
		}
	}
	var pgErr sqlStater
	if errors.As(err, &pgErr) {
		switch pgErr.SQLState() {
		case "40P01":
			return ReasonDeadlock
		case "40001":
			return ReasonSerialization
		case "55P03":
			return ReasonLockTimeout
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadlock"):
		return ReasonDeadlock
	case strings.Contains(msg, "lock wait timeout"):
		return ReasonLockTimeout
	case strings.Contains(msg, "could not serialize access"):
		return ReasonSerialization
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) ||
		(strings.Contains(msg, "connection") && strings.Contains(msg, "lost")) {
		return ReasonConnection
	}
	return ReasonNone
}

func (c Config) allows(r Reason) bool {
	switch r {
	case ReasonConflict:
		return c.RetryOnConcurrentModification
	case ReasonDeadlock, ReasonSerialization:
		return c.RetryOnDeadlock
	case ReasonLockTimeout:
		return c.RetryOnLockTimeout
	case ReasonConnection, ReasonCustom:
		return true
	default:
		return false
	}
}

func reasonFor(err error, config Config) Reason {
	r := Classify(err)
	if r == ReasonNone && config.RetryPredicate != nil && !isClientError(err) && config.RetryPredicate(err) {
		return ReasonCustom
	}
	return r
}

func isClientError(err error) bool {
	return errors.Is(err, shared.ErrInvalidInput) || errors.Is(err, shared.ErrNotFound) ||
		errors.Is(err, shared.ErrConflict) || errors.Is(err, shared.ErrForbidden)
}

// IsRetryableError reports whether a failed transaction attempt may be re-run under config
func IsRetryableError(err error, config Config) bool {
	return config.allows(reasonFor(err, config))
}

// Backoff returns the delay before the next attempt (attempt is 1-based)
func Backoff(attempt int, config Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.JitterEnabled {
		delay *= 0.8 + rand.Float64()*0.4
	}
	return time.Duration(max(delay, 0))
}

// ExecuteWithRetry 执行 fn，可重试的失败在退避后重跑，直到成功、不可重试或次数用尽
func ExecuteWithRetry(ctx context.Context, config Config, fn func(ctx context.Context) error) error {
	if !config.Enabled || config.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		reason := reasonFor(err, config)
		if !config.allows(reason) || attempt == config.MaxAttempts {
			break
		}

		delay := Backoff(attempt, config)
		logger.Warn("Retrying transaction",
			zap.String("request_id", persistence.RequestIDFromContext(ctx)),
			zap.String("reason", string(reason)),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	return lastErr
}
