package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"livebridge/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "livebridge", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Server.Bind != "127.0.0.1:8080" {
		t.Fatalf("unexpected server bind: %q", cfg.Server.Bind)
	}
	if cfg.Live.Address() != "localhost:9877" {
		t.Fatalf("unexpected live address: %q", cfg.Live.Address())
	}
	if cfg.Live.DialTimeout != config.Default().Live.DialTimeout {
		t.Fatalf("unexpected dial timeout: %d", cfg.Live.DialTimeout)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("expected directory %q to exist: %v", cfg.Paths.LogDir, err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be directory", cfg.Paths.LogDir)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "livebridge.toml")

	type payload struct {
		Server struct {
			Bind         string `toml:"bind"`
			WriteTimeout int    `toml:"write_timeout"`
		} `toml:"server"`
		Live struct {
			Host      string `toml:"host"`
			Port      int    `toml:"port"`
			IOTimeout int    `toml:"io_timeout"`
		} `toml:"live"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Server.Bind = "127.0.0.1:9090"
	custom.Server.WriteTimeout = 45
	custom.Live.Host = "studio.local"
	custom.Live.Port = 9900
	custom.Live.IOTimeout = 3
	custom.Logging.Format = "json"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Server.Bind != "127.0.0.1:9090" {
		t.Fatalf("expected bind from file, got %q", cfg.Server.Bind)
	}
	if cfg.Server.WriteTimeout != 45 {
		t.Fatalf("expected write timeout 45, got %d", cfg.Server.WriteTimeout)
	}
	if cfg.Server.ReadTimeout != config.Default().Server.ReadTimeout {
		t.Fatalf("expected default read timeout, got %d", cfg.Server.ReadTimeout)
	}
	if cfg.Live.Address() != "studio.local:9900" {
		t.Fatalf("unexpected live address: %q", cfg.Live.Address())
	}
	if cfg.Live.IOTimeout != 3 {
		t.Fatalf("expected io timeout 3, got %d", cfg.Live.IOTimeout)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
}

func TestLiveHostEnvFallback(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "livebridge.toml")

	content := "[live]\nhost = \"\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}
	t.Setenv("LIVEBRIDGE_LIVE_HOST", "env-host")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Live.Host != "env-host" {
		t.Fatalf("expected live host from env, got %q", cfg.Live.Host)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "127.0.0.1:8080") {
		t.Fatalf("sample config missing default bind: %s", contents)
	}
	if !strings.Contains(string(contents), "9877") {
		t.Fatalf("sample config missing default live port: %s", contents)
	}

	// Validate it decodes
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Live.Port != 9877 {
		t.Fatalf("expected live port from sample, got %d", cfg.Live.Port)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Bind = "not-a-bind"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed bind")
	}

	cfg = config.Default()
	cfg.Server.ReadTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive read timeout")
	}

	cfg = config.Default()
	cfg.Live.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for live port out of range")
	}

	cfg = config.Default()
	cfg.Live.Host = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing live host")
	}

	cfg = config.Default()
	cfg.Live.IOTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive io timeout")
	}
}
