package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"livebridge/internal/bridge"
	"livebridge/internal/config"
	"livebridge/internal/httpapi"
	"livebridge/internal/live"
	"livebridge/internal/logging"
	"livebridge/internal/preflight"
)

// Daemon wires the Live client, dispatcher, and HTTP server together and
// enforces single-instance execution through a lock file.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	live       *live.Client
	dispatcher *bridge.Dispatcher
	api        *httpapi.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	APIAddress    string
	LiveAddress   string
	LiveConnected bool
	LockFilePath  string
	Checks        []preflight.Result
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	liveClient := live.NewClient(cfg, logger)
	dispatcher := bridge.NewDispatcher(liveClient, logger)
	lockPath := filepath.Join(cfg.Paths.LogDir, "livebridged.lock")
	return &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		live:       liveClient,
		dispatcher: dispatcher,
		api:        httpapi.New(cfg, dispatcher, logger),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, probes Live, and brings up the HTTP
// server. A Live connection failure is logged but never blocks startup: the
// health endpoint must answer while Live is down, and commands redial on
// demand.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another livebridge daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	for _, check := range preflight.RunAll(d.ctx, d.cfg) {
		if check.Passed {
			d.logger.Debug("preflight check passed",
				logging.String("check", check.Name),
				logging.String("detail", check.Detail))
			continue
		}
		logging.WarnWithContext(d.logger, "preflight check failed", "preflight_failed",
			logging.String("check", check.Name),
			logging.String("detail", check.Detail),
			logging.String(logging.FieldImpact, "add-device requests may fail until resolved"),
			logging.String(logging.FieldErrorHint, "start Ableton Live with the remote script loaded"))
	}

	if err := d.live.Connect(d.ctx); err != nil {
		logging.WarnWithContext(d.logger, "live connection deferred", "live_connect_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "commands will retry the connection on demand"),
			logging.String(logging.FieldErrorHint, "start Ableton Live with the remote script loaded"))
	} else {
		d.logger.Info("connected to live", logging.String("address", d.live.Address()))
	}

	if err := d.api.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("livebridge daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.Addr()))
	return nil
}

// Stop shuts down the HTTP server, closes the Live socket, and releases the
// daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.Stop()
	if err := d.live.Close(); err != nil {
		d.logger.Warn("failed to close live connection", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("livebridge daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Addr reports the bound HTTP address once the daemon has started.
func (d *Daemon) Addr() string {
	return d.api.Addr()
}

// Status returns the current daemon status, including fresh preflight
// results.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		APIAddress:    d.api.Addr(),
		LiveAddress:   d.live.Address(),
		LiveConnected: d.live.Connected(),
		LockFilePath:  d.lockPath,
		Checks:        preflight.RunAll(ctx, d.cfg),
	}
}
