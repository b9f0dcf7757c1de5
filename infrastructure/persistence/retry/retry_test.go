package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"carmarket/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadlock code", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"lock wait timeout code", &mysqlDriver.MySQLError{Number: 1205}, true},
		{"postgres deadlock text", errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{"optimistic conflict", shared.NewConcurrentModificationError("listing", "l-1"), true},
		{"compute error over deadlock", shared.NewComputeError("listing", "recompute rating", &mysqlDriver.MySQLError{Number: 1213}), true},
		{"validation", shared.NewValidationError("listing", "price", "bad"), false},
		{"not found", shared.NewNotFoundError("listing"), false},
		{"conflict", shared.NewConflictError("review", "duplicate"), false},
		{"plain", errors.New("boom"), false},
		{"postgres serialization", pgError("40001"), true},
		{"postgres deadlock code", fmt.Errorf("recompute: %w", pgError("40P01")), true},
		{"postgres unique violation", pgError("23505"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err, cfg); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

type pgError string

func (e pgError) Error() string    { return "pg error " + string(e) }
func (e pgError) SQLState() string { return string(e) }

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Reason
	}{
		{&mysqlDriver.MySQLError{Number: 1213}, ReasonDeadlock},
		{&mysqlDriver.MySQLError{Number: 1205}, ReasonLockTimeout},
		{&mysqlDriver.MySQLError{Number: 1062}, ReasonNone},
		{pgError("55P03"), ReasonLockTimeout},
		{errors.New("could not serialize access due to concurrent update"), ReasonSerialization},
		{shared.NewConcurrentModificationError("listing", "l-1"), ReasonConflict},
		{shared.NewNotFoundError("listing"), ReasonNone},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestSwitchesDisableReasons(t *testing.T) {
	cfg := DefaultConfig
	cfg.RetryOnDeadlock = false
	cfg.RetryOnConcurrentModification = false
	if IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, cfg) {
		t.Error("deadlock retry disabled")
	}
	if IsRetryableError(pgError("40001"), cfg) {
		t.Error("serialization retry follows the deadlock switch")
	}
	if IsRetryableError(shared.NewConcurrentModificationError("listing", "l-1"), cfg) {
		t.Error("optimistic conflict retry disabled")
	}
	if !IsRetryableError(&mysqlDriver.MySQLError{Number: 1205}, cfg) {
		t.Error("lock timeout still retried")
	}

	cfg.RetryPredicate = func(err error) bool { return true }
	if !IsRetryableError(errors.New("transient"), cfg) {
		t.Error("custom predicate should allow retry")
	}
	if IsRetryableError(shared.NewValidationError("review", "rating", "bad"), cfg) {
		t.Error("predicate must not override client errors")
	}
}

func TestExecuteWithRetryEventuallySucceeds(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("save: %w", shared.NewConcurrentModificationError("listing", "l-1"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExecuteWithRetryStopsOnClientError(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return shared.NewValidationError("review", "rating", "out of range")
	})
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Fatalf("unexpected error %v", err)
	}
	if attempts != 1 {
		t.Errorf("client errors must not be retried, attempts = %d", attempts)
	}
}

func TestExponentialBackoff(t *testing.T) {
	cfg := fastConfig()
	cfg.InitialDelay = 100 * time.Millisecond
	cfg.MaxDelay = 250 * time.Millisecond

	if d := Backoff(1, cfg); d != 100*time.Millisecond {
		t.Errorf("attempt 1 delay = %v", d)
	}
	if d := Backoff(2, cfg); d != 200*time.Millisecond {
		t.Errorf("attempt 2 delay = %v", d)
	}
	if d := Backoff(5, cfg); d != 250*time.Millisecond {
		t.Errorf("delay should be capped, got %v", d)
	}
}
