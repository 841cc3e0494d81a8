package manager

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"camerad/internal/classify"
	"camerad/pkg/types"
)

// OpenWindows implements the "show cameras" command: one window per selected
// device that has no live session. Session start sequences run on background
// goroutines; callers poll window state. Returns the windows opened by this
// call.
func (m *Manager) OpenWindows(ctx context.Context) ([]types.WindowStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	var opened []*Window
	for _, uid := range m.selOrder {
		if cur, live := m.sessions[uid]; live && cur.State() != StateStopped {
			// At most one live session per device.
			continue
		}
		h := m.handles[uid]
		if h == nil {
			continue
		}
		rec, ok := m.deviceByUID(uid)
		if !ok {
			continue
		}
		s := m.newSession(h, rec)
		w := &Window{ID: uuid.NewString(), Session: s, OpenedAt: time.Now()}
		m.windows[w.ID] = w
		m.sessions[uid] = s
		opened = append(opened, w)
	}
	windowsOpen.Set(float64(len(m.windows)))
	m.mu.Unlock()

	out := make([]types.WindowStatus, 0, len(opened))
	for _, w := range opened {
		m.publisher.Publish(Event{Name: "window_opened", DeviceUID: w.Session.devUID, Fields: map[string]any{"window": w.ID}})
		out = append(out, m.windowStatus(w))
		go m.runSession(w.Session)
	}
	return out, nil
}

// Windows returns every open window, oldest first.
func (m *Manager) Windows() []types.WindowStatus {
	m.mu.Lock()
	ws := make([]*Window, 0, len(m.windows))
	for _, w := range m.windows {
		ws = append(ws, w)
	}
	m.mu.Unlock()
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].OpenedAt.Equal(ws[j].OpenedAt) {
			return ws[i].ID < ws[j].ID
		}
		return ws[i].OpenedAt.Before(ws[j].OpenedAt)
	})
	out := make([]types.WindowStatus, 0, len(ws))
	for _, w := range ws {
		out = append(out, m.windowStatus(w))
	}
	return out
}

// Window returns the status of one window.
func (m *Manager) Window(id string) (types.WindowStatus, error) {
	m.mu.Lock()
	w, ok := m.windows[id]
	m.mu.Unlock()
	if !ok {
		return types.WindowStatus{}, ErrWindowNotFound(id)
	}
	return m.windowStatus(w), nil
}

// WindowLog returns a window's rolling log, oldest line first.
func (m *Manager) WindowLog(id string) ([]string, error) {
	m.mu.Lock()
	w, ok := m.windows[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrWindowNotFound(id)
	}
	return w.Session.logbuf.Lines(), nil
}

// CloseWindow removes a window and tears its session down. Sibling windows
// are unaffected. Reopening the device later constructs a fresh session
// with a zero attempt count.
func (m *Manager) CloseWindow(id string) error {
	m.mu.Lock()
	w, ok := m.windows[id]
	if !ok {
		m.mu.Unlock()
		return ErrWindowNotFound(id)
	}
	delete(m.windows, id)
	uid := w.Session.devUID
	if cur := m.sessions[uid]; cur == w.Session {
		delete(m.sessions, uid)
	}
	if m.deselectOnClose {
		if _, present := m.selected[uid]; present {
			delete(m.selected, uid)
			for i, s := range m.selOrder {
				if s == uid {
					m.selOrder = append(m.selOrder[:i], m.selOrder[i+1:]...)
					break
				}
			}
		}
	}
	windowsOpen.Set(float64(len(m.windows)))
	m.mu.Unlock()

	m.stopSession(w.Session)
	m.publisher.Publish(Event{Name: "window_closed", DeviceUID: uid, Fields: map[string]any{"window": id}})
	return nil
}

// CloseAll force-closes every window and cleans up every outstanding
// session. Used on daemon shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	ws := make([]*Window, 0, len(m.windows))
	for _, w := range m.windows {
		ws = append(ws, w)
	}
	m.windows = make(map[string]*Window)
	m.sessions = make(map[string]*Session)
	windowsOpen.Set(0)
	m.mu.Unlock()

	for _, w := range ws {
		m.stopSession(w.Session)
		m.publisher.Publish(Event{Name: "window_closed", DeviceUID: w.Session.devUID, Fields: map[string]any{"window": w.ID}})
	}
}

func (m *Manager) windowStatus(w *Window) types.WindowStatus {
	s := w.Session
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.WindowStatus{
		ID:         w.ID,
		DeviceUID:  s.devUID,
		DeviceName: s.devName,
		Category:   s.category,
		Warning:    classify.AdvisoryWarning(s.category),
		State:      string(s.state),
		Preset:     string(s.preset),
		Attempts:   s.attempts,
		Error:      s.lastErr,
		OpenedAt:   w.OpenedAt.Unix(),
	}
}
