package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"camerad/internal/capture"
	"camerad/internal/manager"
	"camerad/pkg/types"
)

func newTestServer(t *testing.T, devs ...*capture.SimDevice) (*httptest.Server, *capture.SimBackend) {
	t.Helper()
	b := capture.NewSimBackend(devs...)
	m := manager.NewWithConfig(manager.ManagerConfig{
		Backend:     b,
		Logger:      zerolog.Nop(),
		RetryDelay:  -1,
		SettleDelay: -1,
	})
	srv := httptest.NewServer(NewMux(m))
	t.Cleanup(srv.Close)
	t.Cleanup(m.CloseAll)
	return srv, b
}

func doJSON(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestFullFlowOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t,
		capture.NewSimDevice("uid-1", "FaceTime HD Camera"),
		capture.NewSimDevice("uid-2", "OBS Virtual Camera"),
	)

	// Not ready before the first discovery.
	if code := doJSON(t, http.MethodGet, srv.URL+"/readyz", nil); code != http.StatusServiceUnavailable {
		t.Fatalf("readyz before discovery = %d", code)
	}

	var devs types.DevicesResponse
	if code := doJSON(t, http.MethodPost, srv.URL+"/discover", &devs); code != http.StatusOK {
		t.Fatalf("discover = %d", code)
	}
	if len(devs.Devices) != 2 {
		t.Fatalf("devices = %d, want 2", len(devs.Devices))
	}

	if code := doJSON(t, http.MethodGet, srv.URL+"/readyz", nil); code != http.StatusOK {
		t.Fatalf("readyz after discovery = %d", code)
	}

	var sel types.SelectionResponse
	doJSON(t, http.MethodGet, srv.URL+"/selection", &sel)
	if len(sel.Selected) != 1 || sel.Selected[0] != "uid-1" {
		t.Fatalf("selection = %v, want [uid-1]", sel.Selected)
	}

	if code := doJSON(t, http.MethodPost, srv.URL+"/devices/uid-2/toggle", &sel); code != http.StatusOK {
		t.Fatalf("toggle = %d", code)
	}
	if len(sel.Selected) != 2 {
		t.Fatalf("selection after toggle = %v", sel.Selected)
	}

	var opened types.WindowsResponse
	if code := doJSON(t, http.MethodPost, srv.URL+"/windows", &opened); code != http.StatusCreated {
		t.Fatalf("open windows = %d", code)
	}
	if len(opened.Windows) != 2 {
		t.Fatalf("opened = %d windows, want 2", len(opened.Windows))
	}

	waitHTTPWindowState(t, srv.URL, opened.Windows[0].ID, "running")

	var one types.WindowStatus
	if code := doJSON(t, http.MethodGet, srv.URL+"/windows/"+opened.Windows[0].ID, &one); code != http.StatusOK {
		t.Fatalf("get window = %d", code)
	}

	var logResp types.WindowLogResponse
	if code := doJSON(t, http.MethodGet, srv.URL+"/windows/"+opened.Windows[0].ID+"/log", &logResp); code != http.StatusOK {
		t.Fatalf("window log = %d", code)
	}

	if code := doJSON(t, http.MethodDelete, srv.URL+"/windows/"+opened.Windows[0].ID, nil); code != http.StatusNoContent {
		t.Fatalf("close window = %d", code)
	}

	var st types.StatusResponse
	if code := doJSON(t, http.MethodGet, srv.URL+"/status", &st); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(st.Windows) != 1 {
		t.Fatalf("status windows = %d, want 1", len(st.Windows))
	}
	if st.Authorization != string(capture.AuthAuthorized) {
		t.Fatalf("authorization = %q", st.Authorization)
	}
}

func waitHTTPWindowState(t *testing.T, base, id, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var ws types.WindowStatus
		if code := doJSON(t, http.MethodGet, base+"/windows/"+id, &ws); code == http.StatusOK && ws.State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("window %s never reached %s", id, want)
}

func TestErrorMapping(t *testing.T) {
	busy := capture.NewSimDevice("uid-2", "Logitech BRIO")
	srv, b := newTestServer(t, capture.NewSimDevice("uid-1", "FaceTime HD Camera"), busy)

	// Denied authorization -> 403.
	b.SetAuthorization(capture.AuthDenied)
	var errResp types.ErrorResponse
	if code := doJSON(t, http.MethodPost, srv.URL+"/discover", &errResp); code != http.StatusForbidden {
		t.Fatalf("discover denied = %d", code)
	}
	if errResp.Code != http.StatusForbidden {
		t.Fatalf("error payload code = %d", errResp.Code)
	}

	// No cameras -> 404.
	b.SetAuthorization(capture.AuthAuthorized)
	b.SetDevices()
	if code := doJSON(t, http.MethodPost, srv.URL+"/discover", nil); code != http.StatusNotFound {
		t.Fatalf("discover empty = %d", code)
	}

	// Unknown device -> 404.
	b.SetDevices(capture.NewSimDevice("uid-1", "FaceTime HD Camera"), busy)
	if code := doJSON(t, http.MethodPost, srv.URL+"/discover", nil); code != http.StatusOK {
		t.Fatal("re-discover failed")
	}
	if code := doJSON(t, http.MethodPost, srv.URL+"/devices/nope/toggle", nil); code != http.StatusNotFound {
		t.Fatalf("toggle unknown = %d", code)
	}

	// Failed lock probe -> 422.
	busy.LockHeld = true
	if code := doJSON(t, http.MethodPost, srv.URL+"/devices/uid-2/toggle", nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("toggle busy = %d", code)
	}

	// Unknown window -> 404.
	if code := doJSON(t, http.MethodGet, srv.URL+"/windows/nope", nil); code != http.StatusNotFound {
		t.Fatalf("get unknown window = %d", code)
	}
	if code := doJSON(t, http.MethodDelete, srv.URL+"/windows/nope", nil); code != http.StatusNotFound {
		t.Fatalf("delete unknown window = %d", code)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, capture.NewSimDevice("uid-1", "FaceTime HD Camera"))
	if code := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil); code != http.StatusOK {
		t.Fatalf("healthz = %d", code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, capture.NewSimDevice("uid-1", "FaceTime HD Camera"))
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics = %d", resp.StatusCode)
	}
}
