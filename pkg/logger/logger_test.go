package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"carmarket/config"
	"carmarket/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNilLoggerSafety(t *testing.T) {
	restore := ReplaceForTest(nil)
	defer restore()

	Debug("search executed")
	Info("listing created")
	Warn("stats cache backend unavailable")
	Error("recompute failed")

	if With(zap.String("listing_id", "l-1")) == nil {
		t.Error("With() returned nil logger")
	}
	if WithRequestID("req-1") == nil {
		t.Error("WithRequestID() returned nil logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext() returned nil logger")
	}
}

func TestFromContextCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := ReplaceForTest(zap.New(core))
	defer restore()

	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")
	FromContext(ctx).Info("listing viewed", zap.String("listing_id", "l-1"))

	entries := logs.FilterMessage("listing viewed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-42" {
		t.Errorf("request_id = %v", got)
	}
}

func TestInitStampsServiceFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.log")
	app := config.AppConfig{Name: "catalog", Version: "1.2.0", Env: "production"}
	if err := Init(&config.LogConfig{Level: "info", Output: "file", FilePath: path}, app); err != nil {
		t.Fatal(err)
	}
	Info("stats recomputed", zap.String("key", "landing_stats"))
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("production output should be one json object per line: %v", err)
	}
	for k, want := range map[string]string{"service": "catalog", "version": "1.2.0", "env": "production", "key": "landing_stats"} {
		if entry[k] != want {
			t.Errorf("%s = %v, want %v", k, entry[k], want)
		}
	}
}

func TestUseConsole(t *testing.T) {
	cases := []struct {
		format, env string
		want        bool
	}{
		{"", "development", true},
		{"", "production", false},
		{"json", "development", false},
		{"console", "production", true},
	}
	for _, c := range cases {
		if got := useConsole(c.format, c.env); got != c.want {
			t.Errorf("useConsole(%q, %q) = %v", c.format, c.env, got)
		}
	}
}

func TestDynamicLogLevel(t *testing.T) {
	if err := Init(&config.LogConfig{Level: "debug", Output: "stdout"}, config.AppConfig{Name: "catalog", Env: "development"}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	defer Sync()

	if !Get().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be enabled")
	}
	UpdateLevel("warn")
	if Get().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled after raising the level")
	}
	UpdateLevel("debug")
}

func TestFileOutput(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "logs", "catalog.log")

	fileConfig := &config.LogConfig{
		Level:      "info",
		Format:     "json",
		Output:     "file",
		FilePath:   testFile,
		MaxSize:    1,
		MaxBackups: 1,
	}
	if err := Init(fileConfig, config.AppConfig{Name: "catalog", Env: "production"}); err != nil {
		t.Fatalf("Failed to initialize file logger: %v", err)
	}

	for i := 0; i < 10; i++ {
		Info("search executed", zap.Int("page", i))
	}
	Error("recompute failed")
	_ = Sync()

	fileInfo, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Log file not created: %v", err)
	}
	if fileInfo.Size() == 0 {
		t.Fatal("Log file is empty")
	}
}

func TestSyncFunctionality(t *testing.T) {
	if err := Init(&config.LogConfig{Level: "info", Output: "stdout"}, config.AppConfig{Name: "catalog", Env: "development"}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	Info("Test message before sync")
	if err := Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
}
