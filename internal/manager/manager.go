package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"camerad/internal/capture"
	"camerad/internal/discovery"
	"camerad/pkg/types"
)

type Manager struct {
	mu      sync.Mutex
	backend capture.Backend
	coord   *discovery.Coordinator
	log     zerolog.Logger

	// Published device state from the last successful discovery pass.
	available []types.Device
	handles   map[string]capture.Device // by device UID

	// Selection set; membership by UID, selOrder preserves insertion order.
	selected map[string]struct{}
	selOrder []string

	// Window arena keyed by window ID; sessions keyed by device UID so the
	// one-live-session-per-device invariant is a map property.
	windows  map[string]*Window
	sessions map[string]*Session

	// Single banner error from the last discovery/selection failure.
	bannerErr string

	startTime   time.Time
	publisher   EventPublisher
	prevDropped uint64

	// Session lifecycle tunables (fixed, not exponential).
	maxStartAttempts int
	retryDelay       time.Duration
	settleDelay      time.Duration
	logLines         int
	deselectOnClose  bool
}

// New constructs a Manager with default tunables.
func New(backend capture.Backend, log zerolog.Logger) *Manager {
	return NewWithConfig(ManagerConfig{Backend: backend, Logger: log})
}

// Ready reports whether the last discovery pass published at least one
// usable device.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.available) > 0
}

// Devices returns the published device list from the last successful pass.
func (m *Manager) Devices() []types.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Device, len(m.available))
	copy(out, m.available)
	return out
}

// Selection returns the selected device UIDs in selection order.
func (m *Manager) Selection() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.selOrder))
	copy(out, m.selOrder)
	return out
}

// deviceByUID returns the published device record for a UID.
func (m *Manager) deviceByUID(uid string) (types.Device, bool) {
	for _, d := range m.available {
		if d.UID == uid {
			return d, true
		}
	}
	return types.Device{}, false
}
