package camctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"camerad/pkg/types"
)

// Client is a thin HTTP client for the camerad control API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient normalizes baseURL ("host:port" or full URL) into a Client.
func NewClient(baseURL string) *Client {
	u := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "http://" + u
	}
	return &Client{BaseURL: u, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// APIError carries the server's error payload and status code.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("camerad: %s (HTTP %d)", e.Message, e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(nil))
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr types.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) Discover(ctx context.Context) (types.DevicesResponse, error) {
	var out types.DevicesResponse
	err := c.do(ctx, http.MethodPost, "/discover", &out)
	return out, err
}

func (c *Client) Devices(ctx context.Context) (types.DevicesResponse, error) {
	var out types.DevicesResponse
	err := c.do(ctx, http.MethodGet, "/devices", &out)
	return out, err
}

func (c *Client) Toggle(ctx context.Context, uid string) (types.SelectionResponse, error) {
	var out types.SelectionResponse
	err := c.do(ctx, http.MethodPost, "/devices/"+uid+"/toggle", &out)
	return out, err
}

func (c *Client) Selection(ctx context.Context) (types.SelectionResponse, error) {
	var out types.SelectionResponse
	err := c.do(ctx, http.MethodGet, "/selection", &out)
	return out, err
}

func (c *Client) OpenWindows(ctx context.Context) (types.WindowsResponse, error) {
	var out types.WindowsResponse
	err := c.do(ctx, http.MethodPost, "/windows", &out)
	return out, err
}

func (c *Client) Windows(ctx context.Context) (types.WindowsResponse, error) {
	var out types.WindowsResponse
	err := c.do(ctx, http.MethodGet, "/windows", &out)
	return out, err
}

func (c *Client) Window(ctx context.Context, id string) (types.WindowStatus, error) {
	var out types.WindowStatus
	err := c.do(ctx, http.MethodGet, "/windows/"+id, &out)
	return out, err
}

func (c *Client) WindowLog(ctx context.Context, id string) (types.WindowLogResponse, error) {
	var out types.WindowLogResponse
	err := c.do(ctx, http.MethodGet, "/windows/"+id+"/log", &out)
	return out, err
}

func (c *Client) CloseWindow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/windows/"+id, nil)
}

func (c *Client) Status(ctx context.Context) (types.StatusResponse, error) {
	var out types.StatusResponse
	err := c.do(ctx, http.MethodGet, "/status", &out)
	return out, err
}
