package manager

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"camerad/internal/capture"
)

// newTestManager builds a manager over a sim backend with zeroed delays so
// retry sequences resolve instantly.
func newTestManager(t *testing.T, devs ...*capture.SimDevice) (*Manager, *capture.SimBackend, *MemoryPublisher) {
	t.Helper()
	b := capture.NewSimBackend(devs...)
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{
		Backend:     b,
		Logger:      zerolog.Nop(),
		RetryDelay:  -1,
		SettleDelay: -1,
		Publisher:   pub,
	})
	return m, b, pub
}

// discoverOK runs a discovery pass that must succeed.
func discoverOK(t *testing.T, m *Manager) {
	t.Helper()
	if _, err := m.Discover(context.Background()); err != nil {
		t.Fatalf("discover: %v", err)
	}
}

// waitWindowState polls until the window reaches the state or the deadline
// passes.
func waitWindowState(t *testing.T, m *Manager, windowID string, want SessionState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ws, err := m.Window(windowID)
		if err == nil && ws.State == string(want) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	ws, err := m.Window(windowID)
	t.Fatalf("window %s never reached %s (last: %+v, err=%v)", windowID, want, ws, err)
}
