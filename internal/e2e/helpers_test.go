package e2e

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"camerad/internal/capture"
	"camerad/internal/httpapi"
	"camerad/internal/manager"
)

// newServer stands up the full HTTP stack over a sim backend populated with
// the given devices. Lifecycle delays are disabled so sessions settle fast.
func newServer(t *testing.T, devices ...*capture.SimDevice) (*httptest.Server, *manager.Manager, *capture.SimBackend) {
	t.Helper()
	backend := capture.NewSimBackend(devices...)
	backend.SetAuthorization(capture.AuthAuthorized)
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Backend:     backend,
		Logger:      zerolog.Nop(),
		RetryDelay:  -1,
		SettleDelay: -1,
	})
	mux := httpapi.NewMux(mgr)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(mgr.CloseAll)
	return srv, mgr, backend
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPost(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpDelete(t *testing.T, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp
}
