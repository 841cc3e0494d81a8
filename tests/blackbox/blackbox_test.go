package blackbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	cleanup := func() { _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "camerad")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/camerad")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// writeSimConfig writes a YAML config that exposes the given sim devices.
func writeSimConfig(t *testing.T, yamlBody string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "camerad.yaml")
	if err := os.WriteFile(p, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin, configPath string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf(":%d", port)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	args := []string{"--addr", addr, "--backend", "sim"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func post(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func del(t *testing.T, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	cfg := writeSimConfig(t, `
backend: sim
retry_delay_ms: 10
settle_delay_ms: 1
sim_devices:
  - uid: bb-cam
    name: FaceTime HD Camera
  - uid: bb-obs
    name: OBS Virtual Camera
`)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, cfg, port)

	// /healthz
	resp, body := get(t, sp.base+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz %d %s", resp.StatusCode, string(body))
	}

	// The daemon runs an initial discovery in the background; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, _ = get(t, sp.base+"/readyz")
		if resp.StatusCode == http.StatusOK {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("/readyz did not become ready in time; last=%d", resp.StatusCode)
		}
		time.Sleep(25 * time.Millisecond)
	}

	// /devices returns both published devices with categories.
	resp, body = get(t, sp.base+"/devices")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/devices %d %s", resp.StatusCode, string(body))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("/devices content-type=%s", ct)
	}
	var devsResp struct {
		Devices []struct {
			UID      string `json:"uid"`
			Category string `json:"category"`
		} `json:"devices"`
	}
	if err := json.Unmarshal(body, &devsResp); err != nil {
		t.Fatalf("/devices json: %v body=%s", err, string(body))
	}
	if len(devsResp.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devsResp.Devices))
	}

	// Select the second device too, then open windows for both.
	resp, body = post(t, sp.base+"/devices/bb-obs/toggle")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle %d %s", resp.StatusCode, string(body))
	}
	resp, body = post(t, sp.base+"/windows")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("/windows %d %s", resp.StatusCode, string(body))
	}
	var winsResp struct {
		Windows []struct {
			ID    string `json:"id"`
			State string `json:"state"`
		} `json:"windows"`
	}
	if err := json.Unmarshal(body, &winsResp); err != nil {
		t.Fatalf("/windows json: %v body=%s", err, string(body))
	}
	if len(winsResp.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(winsResp.Windows))
	}

	// Sessions reach running.
	deadline = time.Now().Add(2 * time.Second)
	for {
		resp, body = get(t, sp.base+"/windows")
		if err := json.Unmarshal(body, &winsResp); err != nil {
			t.Fatalf("list windows json: %v", err)
		}
		running := 0
		for _, w := range winsResp.Windows {
			if w.State == "running" {
				running++
			}
		}
		if running == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("sessions did not reach running; body=%s", string(body))
		}
		time.Sleep(25 * time.Millisecond)
	}

	// Close one window.
	if resp := del(t, sp.base+"/windows/"+winsResp.Windows[0].ID); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete %d", resp.StatusCode)
	}

	// /status reflects one open window.
	resp, body = get(t, sp.base+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d %s", resp.StatusCode, string(body))
	}
	var statusResp struct {
		Windows  []any    `json:"windows"`
		Selected []string `json:"selected"`
	}
	if err := json.Unmarshal(body, &statusResp); err != nil {
		t.Fatalf("/status json: %v body=%s", err, string(body))
	}
	if len(statusResp.Windows) != 1 || len(statusResp.Selected) != 2 {
		t.Fatalf("expected 1 window and 2 selected, got %d/%d", len(statusResp.Windows), len(statusResp.Selected))
	}
}

func TestBlackbox_Toggle_UnknownDevice_404(t *testing.T) {
	bin := buildBinary(t)
	cfg := writeSimConfig(t, `
backend: sim
sim_devices:
  - uid: bb-cam
    name: FaceTime HD Camera
`)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, cfg, port)

	resp, body := post(t, sp.base+"/devices/missing/toggle")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d, body=%s", resp.StatusCode, string(body))
	}
}

func TestBlackbox_AllDevicesUnhealthy_404(t *testing.T) {
	bin := buildBinary(t)
	cfg := writeSimConfig(t, `
backend: sim
sim_devices:
  - uid: bb-zzz
    name: Sleepy Cam
    suspended: true
`)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, cfg, port)

	resp, body := post(t, sp.base+"/discover")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 when every device is dropped, got %d, body=%s", resp.StatusCode, string(body))
	}
}
