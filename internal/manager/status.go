package manager

import (
	"time"

	"camerad/pkg/types"
)

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	passes, dropped := m.coord.Counters()

	m.mu.Lock()
	resp := types.StatusResponse{
		Authorization:    string(m.backend.AuthorizationStatus()),
		Error:            m.bannerErr,
		Devices:          make([]types.Device, len(m.available)),
		Selected:         make([]string, len(m.selOrder)),
		DiscoveriesTotal: passes,
		DroppedTotal:     dropped,
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
	}
	copy(resp.Devices, m.available)
	copy(resp.Selected, m.selOrder)
	m.mu.Unlock()

	resp.Windows = m.Windows()
	return resp
}
