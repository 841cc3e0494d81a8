package manager

import (
	"time"

	"github.com/rs/zerolog"

	"camerad/internal/capture"
	"camerad/internal/discovery"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	// defaultMaxStartAttempts is the fixed retry cap for session start.
	defaultMaxStartAttempts = 3
	// defaultRetryDelay is the fixed (non-exponential) delay between retries.
	defaultRetryDelay = 500 * time.Millisecond
	// defaultSettleDelay runs once before the first start attempt.
	defaultSettleDelay = 100 * time.Millisecond
	// defaultLogLines caps each window's rolling log.
	defaultLogLines = 5
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Backend capture.Backend
	Logger  zerolog.Logger

	// MaxStartAttempts is the number of retries after the first failed
	// start call. Negative disables retries; zero means default.
	MaxStartAttempts int
	// RetryDelay between start attempts. Negative means no delay; zero
	// means default.
	RetryDelay time.Duration
	// SettleDelay before the first start attempt. Negative means none;
	// zero means default.
	SettleDelay time.Duration
	// LogLines caps each window's rolling log.
	LogLines int
	// DeselectOnClose removes a device from the selection when its window
	// closes. Off by default: closing a window only closes its surface.
	DeselectOnClose bool

	Publisher EventPublisher
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		backend:   cfg.Backend,
		log:       cfg.Logger,
		handles:   make(map[string]capture.Device),
		selected:  make(map[string]struct{}),
		windows:   make(map[string]*Window),
		sessions:  make(map[string]*Session),
		startTime: time.Now(),

		deselectOnClose: cfg.DeselectOnClose,
	}
	switch {
	case cfg.MaxStartAttempts < 0:
		m.maxStartAttempts = 0
	case cfg.MaxStartAttempts == 0:
		m.maxStartAttempts = defaultMaxStartAttempts
	default:
		m.maxStartAttempts = cfg.MaxStartAttempts
	}
	switch {
	case cfg.RetryDelay < 0:
		m.retryDelay = 0
	case cfg.RetryDelay == 0:
		m.retryDelay = defaultRetryDelay
	default:
		m.retryDelay = cfg.RetryDelay
	}
	switch {
	case cfg.SettleDelay < 0:
		m.settleDelay = 0
	case cfg.SettleDelay == 0:
		m.settleDelay = defaultSettleDelay
	default:
		m.settleDelay = cfg.SettleDelay
	}
	if cfg.LogLines <= 0 {
		m.logLines = defaultLogLines
	} else {
		m.logLines = cfg.LogLines
	}
	if cfg.Publisher != nil {
		m.publisher = cfg.Publisher
	} else {
		m.publisher = noopPublisher{}
	}
	m.coord = discovery.New(cfg.Backend, cfg.Logger)
	return m
}
