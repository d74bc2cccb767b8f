package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"livebridge/internal/bridge"
	"livebridge/internal/httpapi"
	"livebridge/internal/live"
	"livebridge/internal/logging"
	"livebridge/internal/testsupport"
)

type stubSender struct {
	mu     sync.Mutex
	calls  int
	result json.RawMessage
	err    error
}

func (s *stubSender) SendCommand(ctx context.Context, name string, params any) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestServer(t *testing.T, sender bridge.CommandSender) *httpapi.Server {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	dispatcher := bridge.NewDispatcher(sender, logging.NewNop())
	return httpapi.New(cfg, dispatcher, logging.NewNop())
}

func doRequest(t *testing.T, srv *httpapi.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func assertCORS(t *testing.T, header http.Header) {
	t.Helper()
	if got := header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if got := header.Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Fatalf("unexpected allow-methods %q", got)
	}
	if got := header.Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Fatalf("unexpected allow-headers %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubSender{})

	w := doRequest(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %q", got)
	}
	assertCORS(t, w.Header())

	var resp httpapi.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("expected status ok, got %q", resp.Status)
	}
}

func TestHealthIgnoresLiveState(t *testing.T) {
	// Health reports daemon liveness, not Live connectivity.
	sender := &stubSender{err: errors.New("dial live at 127.0.0.1:9877: connection refused")}
	srv := newTestServer(t, sender)

	w := doRequest(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 while live is down, got %d", w.Code)
	}
	if sender.callCount() != 0 {
		t.Fatalf("health must not touch the live connection, got %d calls", sender.callCount())
	}
}

func TestAddDeviceSuccess(t *testing.T) {
	sender := &stubSender{result: json.RawMessage(`{"loaded":true,"device":"Reverb"}`)}
	srv := newTestServer(t, sender)

	w := doRequest(t, srv, http.MethodPost, "/add_device", `{"track_index":1,"device_name":"Reverb"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}
	assertCORS(t, w.Header())

	var resp httpapi.AddDeviceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success true")
	}
	if string(resp.Result) != `{"loaded":true,"device":"Reverb"}` {
		t.Fatalf("expected raw result passthrough, got %s", resp.Result)
	}
	if sender.callCount() != 1 {
		t.Fatalf("expected exactly 1 command, got %d", sender.callCount())
	}
}

func TestAddDeviceNullResult(t *testing.T) {
	srv := newTestServer(t, &stubSender{})

	w := doRequest(t, srv, http.MethodPost, "/add_device", `{"track_index":0,"device_name":"Delay"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"result":null`) {
		t.Fatalf("expected null result in body, got %s", w.Body.String())
	}
}

func TestAddDeviceValidationError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing track index", body: `{"device_name":"Reverb"}`},
		{name: "null track index", body: `{"track_index":null,"device_name":"Reverb"}`},
		{name: "missing device name", body: `{"track_index":1}`},
		{name: "empty device name", body: `{"track_index":1,"device_name":""}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sender := &stubSender{}
			srv := newTestServer(t, sender)

			w := doRequest(t, srv, http.MethodPost, "/add_device", tc.body)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", w.Code)
			}
			var resp httpapi.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if !strings.Contains(resp.Error, "track_index and device_name required") {
				t.Fatalf("unexpected error message %q", resp.Error)
			}
			if sender.callCount() != 0 {
				t.Fatalf("expected no commands on validation failure, got %d", sender.callCount())
			}
		})
	}
}

func TestAddDeviceMalformedBody(t *testing.T) {
	sender := &stubSender{}
	srv := newTestServer(t, sender)

	w := doRequest(t, srv, http.MethodPost, "/add_device", `{"track_index": not json`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for malformed body, got %d", w.Code)
	}
	var resp httpapi.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("expected parser detail in error message")
	}
	if sender.callCount() != 0 {
		t.Fatalf("expected no commands on parse failure, got %d", sender.callCount())
	}
}

func TestAddDeviceRemoteError(t *testing.T) {
	sender := &stubSender{err: errors.New("Device EQ Nine not found in browser")}
	srv := newTestServer(t, sender)

	w := doRequest(t, srv, http.MethodPost, "/add_device", `{"track_index":2,"device_name":"EQ Nine"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp httpapi.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if !strings.Contains(resp.Error, "Device EQ Nine not found in browser") {
		t.Fatalf("expected remote message surfaced, got %q", resp.Error)
	}
	if sender.callCount() != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", sender.callCount())
	}
}

func TestUnknownRoutesReturn404(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/status"},
		{http.MethodGet, "/add_device"},
		{http.MethodPost, "/health"},
		{http.MethodPut, "/add_device"},
		{http.MethodDelete, "/health"},
		{http.MethodPost, "/devices/load"},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s %s", tc.method, tc.path), func(t *testing.T) {
			sender := &stubSender{}
			srv := newTestServer(t, sender)

			w := doRequest(t, srv, tc.method, tc.path, "")
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}
			assertCORS(t, w.Header())

			var resp httpapi.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Error != "Endpoint not found" {
				t.Fatalf("expected fixed not-found message, got %q", resp.Error)
			}
			if sender.callCount() != 0 {
				t.Fatalf("expected no commands for unknown route, got %d", sender.callCount())
			}
		})
	}
}

func TestOptionsPreflight(t *testing.T) {
	srv := newTestServer(t, &stubSender{})

	for _, path := range []string{"/health", "/add_device", "/anything"} {
		w := doRequest(t, srv, http.MethodOptions, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("OPTIONS %s: expected 200, got %d", path, w.Code)
		}
		if w.Body.Len() != 0 {
			t.Fatalf("OPTIONS %s: expected empty body, got %q", path, w.Body.String())
		}
		assertCORS(t, w.Header())
		if got := w.Header().Get("Content-Type"); got != "" {
			t.Fatalf("OPTIONS %s: expected no content type, got %q", path, got)
		}
	}
}

func TestServerStartStop(t *testing.T) {
	fake := testsupport.StartFakeLive(t, nil)
	cfg := testsupport.NewConfig(t, testsupport.WithLiveAddress(fake.Addr()))

	client := live.NewClient(cfg, logging.NewNop())
	defer client.Close()
	dispatcher := bridge.NewDispatcher(client, logging.NewNop())
	srv := httpapi.New(cfg, dispatcher, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("start server: %v", err)
	}

	base := "http://" + srv.Addr()
	resp, err := http.Get(base + "/health")
	if err != nil {
		t.Fatalf("health over tcp: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	postResp, err := http.Post(base+"/add_device", "application/json",
		strings.NewReader(`{"track_index":0,"device_name":"Compressor"}`))
	if err != nil {
		t.Fatalf("add device over tcp: %v", err)
	}
	defer postResp.Body.Close()
	if postResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(postResp.Body)
		t.Fatalf("expected 200, got %d (body %s)", postResp.StatusCode, body)
	}
	if len(fake.Commands()) != 1 {
		t.Fatalf("expected 1 command to reach live, got %d", len(fake.Commands()))
	}

	srv.Stop()
	if _, err := http.Get(base + "/health"); err == nil {
		t.Fatal("expected request to fail after stop")
	}
}
