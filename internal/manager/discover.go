package manager

import (
	"context"

	"camerad/internal/capture"
	"camerad/pkg/types"
)

// Discover runs one discovery pass and replaces the published device state
// wholesale. On success the first surviving device is auto-selected; on
// failure the list and selection are cleared and the error becomes the
// status banner. A call while another pass is in flight is a no-op that
// returns the current published list.
func (m *Manager) Discover(ctx context.Context) ([]types.Device, error) {
	res, ran, err := m.coord.Discover(ctx)
	if !ran {
		return m.Devices(), nil
	}
	discoveryPassesTotal.Inc()
	m.syncDroppedMetric()

	if err != nil {
		m.mu.Lock()
		m.available = nil
		m.handles = make(map[string]capture.Device)
		m.selected = make(map[string]struct{})
		m.selOrder = nil
		m.bannerErr = err.Error()
		m.mu.Unlock()
		discoveryDevicesPublished.Set(0)
		m.publisher.Publish(Event{Name: "discovery_failed", Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}

	m.mu.Lock()
	m.available = res.Devices
	m.handles = make(map[string]capture.Device, len(res.Handles))
	for _, h := range res.Handles {
		m.handles[h.UID()] = h
	}
	// A new pass invalidates any prior selection; the first published
	// device becomes the default selection.
	first := res.Devices[0].UID
	m.selected = map[string]struct{}{first: {}}
	m.selOrder = []string{first}
	m.bannerErr = ""
	m.mu.Unlock()

	discoveryDevicesPublished.Set(float64(len(res.Devices)))
	m.publisher.Publish(Event{Name: "discovery_completed", Fields: map[string]any{"devices": len(res.Devices)}})
	return m.Devices(), nil
}

// syncDroppedMetric folds the coordinator's dropped counter into the
// Prometheus counter exactly once per increment.
func (m *Manager) syncDroppedMetric() {
	_, dropped := m.coord.Counters()
	m.mu.Lock()
	delta := dropped - m.prevDropped
	m.prevDropped = dropped
	m.mu.Unlock()
	if delta > 0 {
		discoveryDroppedTotal.Add(float64(delta))
	}
}
