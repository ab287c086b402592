package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 3 * time.Second})
	got := Current()
	if got.Short != 3*time.Second {
		t.Errorf("Short = %v, want 3s", got.Short)
	}
	if got.Ping != Defaults.Ping || got.Medium != Defaults.Medium {
		t.Errorf("zero fields should keep defaults, got %+v", got)
	}

	Reset()
	if Short() != Defaults.Short {
		t.Errorf("Reset did not restore Short, got %v", Short())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "load sections")
	<-ctx.Done()
	cancel()

	if logs.Len() != 1 {
		t.Fatalf("warnings = %d, want 1", logs.Len())
	}
	if op := logs.All()[0].ContextMap()["operation"]; op != "load sections" {
		t.Errorf("operation = %v", op)
	}
}

func TestWithTimeout_QuietOnCancel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	_, cancel := WithTimeout(context.Background(), time.Minute, zap.New(core), "save section")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("early cancel should not log, got %d entries", logs.Len())
	}
}
