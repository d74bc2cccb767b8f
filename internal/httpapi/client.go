package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"livebridge/internal/bridge"
	"livebridge/internal/services"
)

// HTTPDoer describes the HTTP client used to reach the daemon.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a running daemon over its HTTP surface.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// NewClient builds a client for the daemon listening on bind, which may be
// a host:port pair or a full http URL.
func NewClient(bind string) (*Client, error) {
	base := strings.TrimSpace(bind)
	if base == "" {
		return nil, services.Wrap(services.ErrConfiguration, "api client", "", "server bind address is empty", nil)
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, "api client", "", fmt.Sprintf("invalid server address %q", bind), err)
	}
	return &Client{
		baseURL: strings.TrimRight(parsed.String(), "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// BaseURL reports the resolved daemon URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health probes the daemon health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var payload HealthResponse
	if err := c.get(ctx, "/health", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AddDevice asks the daemon to load the named device onto a track. Category
// may be empty; the daemon assumes audio effects.
func (c *Client) AddDevice(ctx context.Context, trackIndex int, deviceName, category string) (*AddDeviceResponse, error) {
	body := bridge.AddDeviceRequest{
		TrackIndex: &trackIndex,
		DeviceName: deviceName,
		Category:   category,
	}
	var payload AddDeviceResponse
	if err := c.post(ctx, "/add_device", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("reach daemon: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRequestBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var failure ErrorResponse
		if err := json.Unmarshal(data, &failure); err == nil && strings.TrimSpace(failure.Error) != "" {
			return errors.New(failure.Error)
		}
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
