// Package discovery orchestrates one authorization check and one device
// enumeration pass, filters the results through health checks, annotates
// them via the classifier, and publishes the surviving list wholesale.
package discovery

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"camerad/internal/capture"
	"camerad/internal/classify"
	"camerad/pkg/types"
)

// Phase is the coordinator's position in one discovery pass.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseAuthorizing Phase = "authorizing"
	PhaseDiscovering Phase = "discovering"
)

// Result is the published outcome of a successful pass. Devices and Handles
// are parallel: Handles[i] backs Devices[i].
type Result struct {
	Devices []types.Device
	Handles []capture.Device
}

// Coordinator runs discovery passes against a capture backend. A single
// in-flight flag guards against concurrent invocation: Discover while a pass
// is running is a no-op returning the last published result.
type Coordinator struct {
	mu      sync.Mutex
	backend capture.Backend
	log     zerolog.Logger

	phase     Phase
	published Result

	passes  uint64
	dropped uint64
}

// New returns an idle coordinator with an empty published list.
func New(backend capture.Backend, log zerolog.Logger) *Coordinator {
	return &Coordinator{backend: backend, log: log, phase: PhaseIdle}
}

// Phase returns the coordinator's current phase.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Published returns the last published result. The slices are copies.
func (c *Coordinator) Published() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyResult(c.published)
}

// Counters reports total passes attempted and devices dropped by health
// checks since construction.
func (c *Coordinator) Counters() (passes, dropped uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passes, c.dropped
}

// AuthorizationStatus exposes the backend's current authorization state.
func (c *Coordinator) AuthorizationStatus() capture.AuthStatus {
	return c.backend.AuthorizationStatus()
}

// Discover runs one pass: authorization, enumeration, health filtering,
// classification, publication. On any failure the published list is cleared
// and the coordinator returns to idle; callers re-invoke to retry. An empty
// enumeration, or one where every device fails health checks, is an error,
// not a valid empty list. The bool result reports whether a pass actually
// ran: it is false when another pass was already in flight and the call was
// a no-op returning the last published result.
func (c *Coordinator) Discover(ctx context.Context) (Result, bool, error) {
	c.mu.Lock()
	if c.phase != PhaseIdle {
		// Pass already in flight; no-op.
		out := copyResult(c.published)
		c.mu.Unlock()
		return out, false, nil
	}
	c.phase = PhaseAuthorizing
	c.passes++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.phase = PhaseIdle
		c.mu.Unlock()
	}()

	if err := c.authorize(ctx); err != nil {
		c.clear()
		return Result{}, true, err
	}

	c.mu.Lock()
	c.phase = PhaseDiscovering
	c.mu.Unlock()

	handles, err := c.backend.Devices(ctx)
	if err != nil {
		c.clear()
		return Result{}, true, err
	}
	if len(handles) == 0 {
		c.clear()
		return Result{}, true, ErrNoCamerasAvailable()
	}

	var res Result
	for _, h := range handles {
		cat := classify.Classify(h.Name(), h.UID())
		verdict := CheckHealth(h, cat)
		if !verdict.Healthy {
			// Dropped, logged, never surfaced as an individual error.
			c.mu.Lock()
			c.dropped++
			c.mu.Unlock()
			c.log.Warn().
				Str("uid", h.UID()).
				Str("name", h.Name()).
				Str("reason", verdict.Reason).
				Msg("dropping unhealthy device")
			continue
		}
		res.Devices = append(res.Devices, types.Device{
			UID:         h.UID(),
			Name:        h.Name(),
			Category:    cat,
			Warning:     classify.AdvisoryWarning(cat),
			FormatCount: len(h.Formats()),
		})
		res.Handles = append(res.Handles, h)
	}
	if len(res.Handles) == 0 {
		c.clear()
		return Result{}, true, ErrNoCamerasAvailable()
	}

	c.mu.Lock()
	c.published = copyResult(res)
	c.mu.Unlock()
	c.log.Info().Int("devices", len(res.Handles)).Msg("discovery pass published")
	return res, true, nil
}

func (c *Coordinator) authorize(ctx context.Context) error {
	switch st := c.backend.AuthorizationStatus(); st {
	case capture.AuthAuthorized:
		return nil
	case capture.AuthNotDetermined:
		granted, err := c.backend.RequestAccess(ctx)
		if err != nil {
			return err
		}
		if !granted {
			return ErrNotAuthorized(string(capture.AuthDenied))
		}
		return nil
	default: // denied or restricted
		return ErrNotAuthorized(string(st))
	}
}

// clear drops the published list; replacement is always wholesale.
func (c *Coordinator) clear() {
	c.mu.Lock()
	c.published = Result{}
	c.mu.Unlock()
}

func copyResult(r Result) Result {
	out := Result{
		Devices: make([]types.Device, len(r.Devices)),
		Handles: make([]capture.Device, len(r.Handles)),
	}
	copy(out.Devices, r.Devices)
	copy(out.Handles, r.Handles)
	return out
}
