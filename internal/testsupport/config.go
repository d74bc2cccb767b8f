package testsupport

import (
	"net"
	"path/filepath"
	"strconv"
	"testing"

	"livebridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with a unique temp log directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Live.DialTimeout = 2
	cfgVal.Live.IOTimeout = 2

	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithBind overrides the HTTP listen address.
func WithBind(bind string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.Bind = bind
	}
}

// WithLiveAddress points the config at an already-listening Live endpoint,
// usually a FakeLive started by the same test.
func WithLiveAddress(addr string) ConfigOption {
	return func(b *configBuilder) {
		host, portStr, err := net.SplitHostPort(addr)
		if err != nil {
			b.t.Fatalf("split live address %q: %v", addr, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			b.t.Fatalf("parse live port %q: %v", portStr, err)
		}
		b.cfg.Live.Host = host
		b.cfg.Live.Port = port
	}
}

// WithLiveTimeouts overrides the dial and per-exchange timeouts in seconds.
func WithLiveTimeouts(dial, io int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Live.DialTimeout = dial
		b.cfg.Live.IOTimeout = io
	}
}
