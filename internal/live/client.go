package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"livebridge/internal/config"
	"livebridge/internal/logging"
)

// Client is the process-wide handle to the remote-control socket. One client
// is constructed at startup and shared; the mutex serializes exchanges.
type Client struct {
	address     string
	dialTimeout time.Duration
	ioTimeout   time.Duration
	logger      *slog.Logger

	mu   sync.Mutex
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

// NewClient builds a client bound to the configured remote-control endpoint.
// The socket is dialed lazily on first use; call Connect to probe eagerly.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		address:     cfg.Live.Address(),
		dialTimeout: time.Duration(cfg.Live.DialTimeout) * time.Second,
		ioTimeout:   time.Duration(cfg.Live.IOTimeout) * time.Second,
		logger:      logging.NewComponentLogger(logger, "live"),
	}
}

// Address returns the remote-control endpoint this client targets.
func (c *Client) Address() string {
	return c.address
}

// Connect establishes the socket if it is not already up.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureConnLocked(ctx)
}

// Connected reports whether the socket is currently established.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close tears down the socket. The client remains usable; the next command
// dials fresh.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

// SendCommand sends one command envelope and waits for its reply. Exchanges
// are serialized on the shared socket. Any transport failure closes the
// socket so the next call reconnects; there is no in-place retry.
func (c *Client) SendCommand(ctx context.Context, name string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.ensureConnLocked(ctx); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.ioTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		_ = c.closeLocked()
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	logging.WithContext(ctx, c.logger).Debug("sending command", logging.String("type", name))

	if err := c.enc.Encode(Request{Type: name, Params: params}); err != nil {
		_ = c.closeLocked()
		return nil, fmt.Errorf("send command: %w", err)
	}

	var resp Response
	if err := c.dec.Decode(&resp); err != nil {
		_ = c.closeLocked()
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.Status {
	case StatusSuccess:
		return resp.Result, nil
	case StatusError:
		msg := strings.TrimSpace(resp.Message)
		if msg == "" {
			msg = "unknown error from live"
		}
		return nil, errors.New(msg)
	default:
		return nil, fmt.Errorf("unexpected response status %q", resp.Status)
	}
}

func (c *Client) ensureConnLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	dialer := net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return fmt.Errorf("dial live at %s: %w", c.address, err)
	}
	c.conn = conn
	c.enc = json.NewEncoder(conn)
	c.dec = json.NewDecoder(conn)
	c.logger.Debug("connected", logging.String("address", c.address))
	return nil
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.enc = nil
	c.dec = nil
	return err
}
