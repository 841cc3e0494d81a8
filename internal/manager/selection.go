package manager

// Toggle flips a device's membership in the selection set. A lock/unlock
// probe runs first; if the probe fails the set is left unchanged and the
// failure becomes the status banner. Membership is by device UID.
func (m *Manager) Toggle(uid string) ([]string, error) {
	m.mu.Lock()
	h, ok := m.handles[uid]
	m.mu.Unlock()
	if !ok {
		return nil, ErrDeviceNotFound(uid)
	}

	if err := h.Lock(); err != nil {
		m.mu.Lock()
		m.bannerErr = "configuration failed: " + err.Error()
		m.mu.Unlock()
		return nil, ErrConfigurationFailed(uid, err.Error())
	}
	h.Unlock()

	m.mu.Lock()
	selected := false
	if _, present := m.selected[uid]; present {
		delete(m.selected, uid)
		for i, s := range m.selOrder {
			if s == uid {
				m.selOrder = append(m.selOrder[:i], m.selOrder[i+1:]...)
				break
			}
		}
	} else {
		m.selected[uid] = struct{}{}
		m.selOrder = append(m.selOrder, uid)
		selected = true
	}
	out := make([]string, len(m.selOrder))
	copy(out, m.selOrder)
	m.mu.Unlock()

	m.publisher.Publish(Event{Name: "selection_toggled", DeviceUID: uid, Fields: map[string]any{"selected": selected}})
	return out, nil
}
