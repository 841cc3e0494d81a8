package manager

import (
	"sync"
	"time"

	"camerad/internal/capture"
	"camerad/pkg/types"
)

// SessionState is the lifecycle state of one capture session.
type SessionState string

const (
	StateCreated     SessionState = "created"
	StateConfiguring SessionState = "configuring"
	StateStarting    SessionState = "starting"
	StateRetrying    SessionState = "retrying"
	StateRunning     SessionState = "running"
	StateFailed      SessionState = "failed"
	StateStopped     SessionState = "stopped"
)

// Session owns exactly one underlying capture session plus its preview
// surface for one device. At most one live Session exists per device.
type Session struct {
	mu sync.Mutex

	devUID   string
	devName  string
	category types.DeviceCategory

	dev     capture.Device
	sess    capture.Session
	surface *previewSurface

	state    SessionState
	preset   capture.Preset
	attempts int // retries performed so far
	lastErr  string
	logbuf   *logBuffer
}

// enterState moves the session to next and reports whether it did. Stopped
// is sticky: teardown can race the detached start goroutine, and a stale
// transition must not bring a torn-down session back.
func (s *Session) enterState(next SessionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopped {
		return false
	}
	s.state = next
	return true
}

// State returns the session's current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempts returns the number of start retries performed so far.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Window is one server-side camera window record. Each window owns one
// Session and its rolling log.
type Window struct {
	ID       string
	Session  *Session
	OpenedAt time.Time
}

// previewSurface models the preview area: an opaque sink the session renders
// into, with a blanked flag driven by session failures.
type previewSurface struct {
	mu      sync.Mutex
	blanked bool
}

func (p *previewSurface) SetBlanked(blanked bool) {
	p.mu.Lock()
	p.blanked = blanked
	p.mu.Unlock()
}

func (p *previewSurface) Blanked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blanked
}
