package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"livebridge/internal/config"
	"livebridge/internal/daemon"
	"livebridge/internal/live"
	"livebridge/internal/logging"
	"livebridge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	daemon     *daemon.Daemon
	live       *testsupport.FakeLive
	configPath string
}

func setupCLITestEnv(t *testing.T, respond func(testsupport.RecordedCommand) live.Response) *cliTestEnv {
	t.Helper()

	fake := testsupport.StartFakeLive(t, respond)
	cfg := testsupport.NewConfig(t, testsupport.WithLiveAddress(fake.Addr()))

	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(d.Stop)

	// The daemon binds port 0, so the CLI has to learn the resolved
	// address from the config file it loads.
	cfg.Server.Bind = d.Addr()
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, daemon: d, live: fake, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[server]\nbind = %q\n\n[live]\nhost = %q\nport = %d\ndial_timeout = %d\nio_timeout = %d\n\n[paths]\nlog_dir = %q\n",
		cfg.Server.Bind,
		cfg.Live.Host,
		cfg.Live.Port,
		cfg.Live.DialTimeout,
		cfg.Live.IOTimeout,
		cfg.Paths.LogDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
