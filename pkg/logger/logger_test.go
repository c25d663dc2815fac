package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	Get().Info(context.Background(), "test message", String("k", "v"), Int("n", 1))
}

func TestLoggerZapBackend(t *testing.T) {
	if err := InitWithBackend(BackendZap); err != nil {
		t.Fatalf("failed to initialize zap logger: %v", err)
	}
	defer func() {
		_ = Init()
	}()

	if _, ok := Get().(*zapLogger); !ok {
		t.Fatalf("expected zap logger, got %T", Get())
	}
	ctx := context.Background()
	Named("zap-test").Info(ctx, "zap message", Float64("f", 1.5), Error(errors.New("boom")))
	if err := Sync(); err != nil {
		t.Logf("sync: %v", err)
	}
}

func TestLoggerUnknownBackend(t *testing.T) {
	err := InitWithBackend("logrus")
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")
}

func TestSetLevelString(t *testing.T) {
	defer func() { _ = SetLevelString("info") }()

	cases := []struct {
		in   string
		slog slog.Level
		zap  zapcore.Level
	}{
		{"debug", slog.LevelDebug, zapcore.DebugLevel},
		{"INFO", slog.LevelInfo, zapcore.InfoLevel},
		{"warning", slog.LevelWarn, zapcore.WarnLevel},
		{" error ", slog.LevelError, zapcore.ErrorLevel},
		{"", slog.LevelInfo, zapcore.InfoLevel},
	}
	for _, tc := range cases {
		if err := SetLevelString(tc.in); err != nil {
			t.Fatalf("SetLevelString(%q): %v", tc.in, err)
		}
		if levelVar.Level() != tc.slog {
			t.Errorf("SetLevelString(%q): slog level %v, want %v", tc.in, levelVar.Level(), tc.slog)
		}
		if zapLevel.Level() != tc.zap {
			t.Errorf("SetLevelString(%q): zap level %v, want %v", tc.in, zapLevel.Level(), tc.zap)
		}
	}

	if err := SetLevelString("verbose"); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestGetCaller(t *testing.T) {
	if got := getCaller(); got == "" {
		t.Fatal("empty caller")
	}
}
