package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		l, err := NewLogger(env, "")
		if err != nil {
			t.Fatalf("NewLogger(%q): %v", env, err)
		}
		_ = l.Sync()
	}

	if _, err := NewLogger("staging", ""); err == nil {
		t.Fatal("expected error for unknown environment")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "debug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level to be enabled after override")
	}

	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Fatal("expected error for bogus level")
	}
}

func TestFromContext(t *testing.T) {
	base := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), base)
	if got := FromContext(ctx); got != base {
		t.Error("expected the stored logger back")
	}

	if got := FromContext(context.Background()); got == nil {
		t.Error("expected a no-op fallback, got nil")
	}
}
