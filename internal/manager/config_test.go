package manager

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"camerad/internal/capture"
)

func TestNewWithConfigDefaults(t *testing.T) {
	m := NewWithConfig(ManagerConfig{Backend: capture.NewSimBackend(), Logger: zerolog.Nop()})
	if m.maxStartAttempts != defaultMaxStartAttempts {
		t.Fatalf("maxStartAttempts = %d, want %d", m.maxStartAttempts, defaultMaxStartAttempts)
	}
	if m.retryDelay != defaultRetryDelay {
		t.Fatalf("retryDelay = %v, want %v", m.retryDelay, defaultRetryDelay)
	}
	if m.settleDelay != defaultSettleDelay {
		t.Fatalf("settleDelay = %v, want %v", m.settleDelay, defaultSettleDelay)
	}
	if m.logLines != defaultLogLines {
		t.Fatalf("logLines = %d, want %d", m.logLines, defaultLogLines)
	}
}

func TestNewWithConfigNegativeDisables(t *testing.T) {
	m := NewWithConfig(ManagerConfig{
		Backend:          capture.NewSimBackend(),
		Logger:           zerolog.Nop(),
		MaxStartAttempts: -1,
		RetryDelay:       -1,
		SettleDelay:      -1,
	})
	if m.maxStartAttempts != 0 {
		t.Fatalf("maxStartAttempts = %d, want 0", m.maxStartAttempts)
	}
	if m.retryDelay != 0 || m.settleDelay != 0 {
		t.Fatalf("delays = %v/%v, want 0/0", m.retryDelay, m.settleDelay)
	}
}

func TestNewWithConfigOverrides(t *testing.T) {
	m := NewWithConfig(ManagerConfig{
		Backend:          capture.NewSimBackend(),
		Logger:           zerolog.Nop(),
		MaxStartAttempts: 5,
		RetryDelay:       time.Second,
		SettleDelay:      time.Millisecond,
		LogLines:         10,
	})
	if m.maxStartAttempts != 5 || m.retryDelay != time.Second || m.settleDelay != time.Millisecond || m.logLines != 10 {
		t.Fatalf("overrides not applied: %+v", m)
	}
}
