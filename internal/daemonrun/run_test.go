package daemonrun_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"livebridge/internal/daemonrun"
	"livebridge/internal/testsupport"
)

func waitFor(t *testing.T, timeout time.Duration, message string, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", message)
}

func TestRunRequiresConfig(t *testing.T) {
	if err := daemonrun.Run(context.Background(), nil, daemonrun.Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestRunLifecycle(t *testing.T) {
	fake := testsupport.StartFakeLive(t, nil)
	cfg := testsupport.NewConfig(t, testsupport.WithLiveAddress(fake.Addr()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{LogLevel: "debug"})
	}()

	pidPath := filepath.Join(cfg.Paths.LogDir, "livebridge.pid")
	waitFor(t, 5*time.Second, "pid file", func() bool {
		_, err := os.Stat(pidPath)
		return err == nil
	})

	pointer := filepath.Join(cfg.Paths.LogDir, "livebridge.log")
	waitFor(t, 5*time.Second, "log pointer", func() bool {
		_, err := os.Stat(pointer)
		return err == nil
	})

	entries, err := filepath.Glob(filepath.Join(cfg.Paths.LogDir, "livebridge-*.log"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one per-run log file, got %v (err %v)", entries, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}

	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Fatalf("expected pid file removed, got %v", err)
	}
}

func TestRunFailsOnLockContention(t *testing.T) {
	fake := testsupport.StartFakeLive(t, nil)
	cfg := testsupport.NewConfig(t, testsupport.WithLiveAddress(fake.Addr()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{})
	}()

	// Wait until the first instance reports holding the lock before probing.
	waitFor(t, 5*time.Second, "first instance startup", func() bool {
		entries, _ := filepath.Glob(filepath.Join(cfg.Paths.LogDir, "livebridge-*.log"))
		if len(entries) == 0 {
			return false
		}
		data, err := os.ReadFile(entries[0])
		return err == nil && strings.Contains(string(data), "livebridge daemon started")
	})

	if err := daemonrun.Run(ctx, cfg, daemonrun.Options{}); err == nil {
		t.Fatal("expected second instance to fail on lock contention")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not return after cancel")
	}
}
