package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"carmarket/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observeSQL(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(ReplaceForTest(zap.New(core)))
	return logs
}

func fieldValue(entry observer.LoggedEntry, key string) (zapcore.Field, bool) {
	for _, f := range entry.Context {
		if f.Key == key {
			return f, true
		}
	}
	return zapcore.Field{}, false
}

func TestSQLLoggerLevels(t *testing.T) {
	query := func() (string, int64) { return "SELECT * FROM `listings` WHERE make_id = 'toyota'", 3 }

	cases := []struct {
		name      string
		level     gormlogger.LogLevel
		wantInfo  bool
		wantWarn  bool
		wantTrace bool
	}{
		{"silent", gormlogger.Silent, false, false, false},
		{"warn", gormlogger.Warn, false, true, false},
		{"info", gormlogger.Info, true, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs := observeSQL(t)
			l := NewSQLLogger(tc.level, DefaultSQLLogOptions())

			l.Info(context.Background(), "migrated %d tables", 9)
			l.Warn(context.Background(), "deprecated option %s", "x")
			l.Trace(context.Background(), time.Now(), query, nil)

			if got := logs.FilterMessage("migrated 9 tables").Len() == 1; got != tc.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tc.wantInfo)
			}
			if got := logs.FilterMessage("deprecated option x").Len() == 1; got != tc.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tc.wantWarn)
			}
			traces := logs.FilterMessage("SQL query executed").All()
			if got := len(traces) == 1; got != tc.wantTrace {
				t.Fatalf("trace logged = %v, want %v", got, tc.wantTrace)
			}
			if tc.wantTrace {
				if f, ok := fieldValue(traces[0], "rows"); !ok || f.Integer != 3 {
					t.Errorf("rows field = %+v", f)
				}
				if f, ok := fieldValue(traces[0], "component"); !ok || f.String != "gorm" {
					t.Errorf("component field = %+v", f)
				}
			}
		})
	}
}

func TestSQLLoggerSlowAndErrors(t *testing.T) {
	logs := observeSQL(t)
	l := NewSQLLogger(gormlogger.Warn, SQLLogOptions{SlowThreshold: time.Millisecond, SkipNotFound: true})
	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")

	countSQL := func() (string, int64) { return "SELECT count(*) FROM `listings` WHERE LOWER(title) LIKE '%corolla%'", 1 }
	l.Trace(ctx, time.Now().Add(-50*time.Millisecond), countSQL, nil)
	l.Trace(ctx, time.Now(), countSQL, nil)
	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM `listings` WHERE id = 'missing'", 0
	}, gormlogger.ErrRecordNotFound)
	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "UPDATE `listings` SET views_count = views_count + 1", 0
	}, errors.New("connection reset"))

	slow := logs.FilterMessage("Slow SQL query").All()
	if len(slow) != 1 {
		t.Fatalf("slow queries logged = %d, want 1", len(slow))
	}
	if f, ok := fieldValue(slow[0], "request_id"); !ok || f.String != "req-42" {
		t.Errorf("request_id not propagated: %+v", f)
	}
	failed := logs.FilterMessage("Database operation failed").All()
	if len(failed) != 1 {
		t.Fatalf("errors logged = %d, want 1 (record not found is skipped)", len(failed))
	}
	if failed[0].Level != zapcore.ErrorLevel {
		t.Errorf("error level = %v", failed[0].Level)
	}
	if logs.Len() != 2 {
		t.Errorf("fast query below Info should not be logged, total entries = %d", logs.Len())
	}
}

func TestSQLLoggerTruncatesLongStatements(t *testing.T) {
	logs := observeSQL(t)
	l := NewSQLLogger(gormlogger.Info, SQLLogOptions{MaxSQLLength: 32})

	long := "SELECT * FROM `listings` WHERE model_id IN (" + strings.Repeat("'m',", 100) + "'m')"
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return long, 0 }, nil)

	entries := logs.FilterMessage("SQL query executed").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	f, _ := fieldValue(entries[0], "sql")
	if !strings.HasSuffix(f.String, "...(truncated)") || len(f.String) != 32+len("...(truncated)") {
		t.Errorf("sql not truncated: %q", f.String)
	}

	mode := l.LogMode(gormlogger.Silent)
	mode.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	if logs.Len() != 1 {
		t.Error("LogMode(Silent) copy should not log")
	}
}
