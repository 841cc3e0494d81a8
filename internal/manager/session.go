package manager

import (
	"errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"camerad/internal/capture"
	"camerad/pkg/types"
)

// errSessionStopped aborts a start sequence whose window was closed between
// attempts.
var errSessionStopped = errors.New("session stopped")

func (m *Manager) newSession(dev capture.Device, rec types.Device) *Session {
	return &Session{
		devUID:   rec.UID,
		devName:  rec.Name,
		category: rec.Category,
		dev:      dev,
		state:    StateCreated,
		surface:  &previewSurface{},
		logbuf:   newLogBuffer(m.logLines),
	}
}

// runSession drives one session through configure and start. It runs on its
// own goroutine, detached from the request that opened the window: an
// in-flight start cannot be aborted, and teardown reconciles afterward.
func (m *Manager) runSession(s *Session) {
	if !m.configureSession(s) {
		return
	}
	m.startSession(s)
}

// configureSession verifies the device, builds the capture session, attaches
// the input, picks the richest supported preset, and binds the preview
// surface. Returns false after recording a terminal failure; configure
// failures never retry.
func (m *Manager) configureSession(s *Session) bool {
	if !s.enterState(StateConfiguring) {
		return false
	}
	m.publisher.Publish(Event{Name: "session_configuring", DeviceUID: s.devUID})

	if !s.dev.Connected() {
		m.failSession(s, "camera is no longer connected")
		return false
	}

	sess, err := m.backend.NewSession(s.dev)
	if err != nil {
		m.failSession(s, "cannot create capture session: "+err.Error())
		return false
	}

	// Configuration bracket. The device is shared with every other process
	// on the host; a held lock means "busy", not a fatal condition.
	locked := s.dev.Lock() == nil
	if !locked {
		m.log.Warn().Str("device", s.devUID).Msg("configuration lock busy; configuring without it")
	}
	addErr := sess.AddInput(s.dev)
	if locked {
		s.dev.Unlock()
	}
	if addErr != nil {
		m.failSession(s, "cannot add input: "+addErr.Error())
		return false
	}

	for _, p := range capture.PresetOrder {
		if sess.CanSetPreset(p) {
			sess.SetPreset(p)
			s.mu.Lock()
			s.preset = p
			s.mu.Unlock()
			break
		}
	}
	sess.BindSurface(s.surface)

	s.mu.Lock()
	if s.state == StateStopped {
		// The window closed while we were configuring. The session never
		// started, so releasing the handles is the whole teardown; committing
		// it would leave an untracked session holding the camera.
		s.mu.Unlock()
		_ = sess.Stop()
		return false
	}
	s.sess = sess
	s.mu.Unlock()
	return true
}

// startSession issues the platform start call after a short settle delay,
// retrying on a fixed (non-exponential) schedule up to the attempt cap.
// Exhausting retries records a terminal, category-specialized failure.
func (m *Manager) startSession(s *Session) {
	s.mu.Lock()
	sess := s.sess
	s.mu.Unlock()
	if sess == nil {
		return
	}

	if !s.enterState(StateStarting) {
		return
	}
	m.publisher.Publish(Event{Name: "session_starting", DeviceUID: s.devUID})
	if m.settleDelay > 0 {
		time.Sleep(m.settleDelay)
	}

	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(m.retryDelay),
		uint64(m.maxStartAttempts),
	)
	op := func() error {
		if !s.enterState(StateStarting) {
			return backoff.Permanent(errSessionStopped)
		}
		return sess.Start()
	}
	notify := func(err error, _ time.Duration) {
		s.mu.Lock()
		s.attempts++
		n := s.attempts
		if s.state != StateStopped {
			s.state = StateRetrying
		}
		s.mu.Unlock()
		s.logbuf.Append(fmt.Sprintf("start attempt %d of %d failed: %v; retrying", n, m.maxStartAttempts, err))
		sessionStartRetriesTotal.Inc()
		m.publisher.Publish(Event{Name: "session_retry", DeviceUID: s.devUID, Fields: map[string]any{"attempt": n}})
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		if errors.Is(err, errSessionStopped) {
			// Closed between attempts; teardown already ran.
			return
		}
		msg := startFailureMessage(s.category)
		m.failSession(s, msg)
		sessionStartFailuresTotal.WithLabelValues(string(s.category)).Inc()
		return
	}

	// The window may have been closed while the start call itself was in
	// flight; the call cannot be aborted. Reconcile by stopping what we
	// just started.
	s.mu.Lock()
	stopped := s.state == StateStopped || s.sess == nil
	if !stopped {
		s.state = StateRunning
	}
	preset := s.preset
	s.mu.Unlock()
	if stopped {
		_ = sess.Stop()
		return
	}

	s.surface.SetBlanked(false)
	sessionsRunning.Inc()
	m.publisher.Publish(Event{Name: "session_running", DeviceUID: s.devUID, Fields: map[string]any{"preset": string(preset)}})
}

// failSession records a terminal failure: state, banner on the window's own
// log, blanked preview. Sibling windows and the main device list are not
// affected.
func (m *Manager) failSession(s *Session, msg string) {
	s.mu.Lock()
	if s.state == StateStopped {
		// The window is gone; there is nothing to show the failure on.
		s.mu.Unlock()
		return
	}
	s.state = StateFailed
	s.lastErr = msg
	s.mu.Unlock()
	s.logbuf.Append(msg)
	s.surface.SetBlanked(true)
	m.publisher.Publish(Event{Name: "session_failed", DeviceUID: s.devUID, Fields: map[string]any{"error": msg}})
	m.log.Error().Str("device", s.devUID).Str("category", string(s.category)).Msg(msg)
}

// stopSession tears a session down: stop is issued only when the session
// reports itself running, and references are released unconditionally even
// if stop errors.
func (m *Manager) stopSession(s *Session) {
	s.mu.Lock()
	sess := s.sess
	s.sess = nil
	s.state = StateStopped
	s.mu.Unlock()

	if sess != nil && sess.Running() {
		if err := sess.Stop(); err != nil {
			m.log.Warn().Str("device", s.devUID).Err(err).Msg("session stop failed")
		}
		sessionsRunning.Dec()
	}
	s.surface.SetBlanked(true)
	m.publisher.Publish(Event{Name: "session_stopped", DeviceUID: s.devUID})
}

// startFailureMessage specializes the terminal error by device category.
func startFailureMessage(c types.DeviceCategory) string {
	switch c {
	case types.CategoryVirtual:
		return "virtual camera failed to start; make sure its host application is running"
	case types.CategoryStreaming:
		return "streaming camera failed to start; make sure the streaming software is broadcasting"
	case types.CategoryScreenCapture:
		return "screen-capture device failed to start; check screen recording permission"
	default:
		return "camera failed to start after repeated attempts"
	}
}
