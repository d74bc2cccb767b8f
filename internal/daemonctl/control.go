package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"livebridge/internal/config"
	"livebridge/internal/httpapi"
	"livebridge/internal/preflight"
)

// ErrDaemonNotRunning indicates no daemon process could be found.
var ErrDaemonNotRunning = errors.New("daemon not running")

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
	LogLevel   string
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State    StartState
	Launched bool
}

// StopResult captures daemon stop/termination outcome.
type StopResult struct {
	StopAcknowledged bool
	ForcedKill       bool
	PID              int
}

// RestartResult captures stop/start outcomes for daemon restart.
type RestartResult struct {
	WasRunning bool
	Stop       StopResult
	Start      StartResult
}

// StatusLine is one labeled row of status output.
type StatusLine struct {
	Label    string
	Severity string
	Detail   string
}

// StatusSnapshot aggregates daemon state for status output, with offline
// fallbacks when no daemon answers.
type StatusSnapshot struct {
	Running    bool
	PID        int
	APIAddress string
	LockPath   string
	Checks     []preflight.Result
}

// PIDPath returns the daemon pid file location for the given config.
func PIDPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, "livebridge.pid")
}

// LockPath returns the daemon lock file location for the given config.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, "livebridged.lock")
}

// Launch starts a detached livebridge daemon process.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"serve"}
	if cfgPath := strings.TrimSpace(opts.ConfigPath); cfgPath != "" {
		args = append(args, "--config", cfgPath)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		args = append(args, "--log-level", level)
	}

	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForHealth polls the daemon health endpoint until it answers and
// returns a connected client.
func WaitForHealth(bind string, timeout time.Duration) (*httpapi.Client, error) {
	client, err := httpapi.NewClient(bind)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		probeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, err := client.Health(probeCtx)
		cancel()
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted launches the daemon unless one already answers on the
// configured bind address.
func EnsureStarted(cfg *config.Config, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	if cfg == nil {
		return StartResult{}, errors.New("configuration not available")
	}

	client, err := httpapi.NewClient(cfg.Server.Bind)
	if err != nil {
		return StartResult{}, err
	}
	probeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	_, healthErr := client.Health(probeCtx)
	cancel()
	if healthErr == nil {
		return StartResult{State: StartStateAlreadyRunning}, nil
	}

	if err := Launch(executablePath, opts); err != nil {
		return StartResult{}, err
	}
	if _, err := WaitForHealth(cfg.Server.Bind, waitTimeout); err != nil {
		return StartResult{}, err
	}
	return StartResult{State: StartStateStarted, Launched: true}, nil
}

// ReadPID reads and validates the daemon pid file.
func ReadPID(pidPath string) (int, error) {
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", pidPath)
	}
	return pid, nil
}

// StopAndTerminate sends SIGTERM to the daemon and escalates to SIGKILL if
// the process is still alive after gracePeriod.
func StopAndTerminate(cfg *config.Config, gracePeriod time.Duration) (StopResult, error) {
	if cfg == nil {
		return StopResult{}, errors.New("configuration not available")
	}

	pidPath := PIDPath(cfg)
	pid, err := ReadPID(pidPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StopResult{}, ErrDaemonNotRunning
		}
		return StopResult{}, err
	}
	if pid == os.Getpid() {
		return StopResult{}, fmt.Errorf("refusing to stop current process (pid %d)", pid)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return StopResult{}, fmt.Errorf("locate daemon process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
			_ = os.Remove(pidPath)
			return StopResult{}, ErrDaemonNotRunning
		}
		return StopResult{}, fmt.Errorf("signal daemon process %d: %w", pid, err)
	}

	result := StopResult{StopAcknowledged: true, PID: pid}
	if waitForExit(pid, gracePeriod) {
		_ = os.Remove(pidPath)
		return result, nil
	}

	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return result, fmt.Errorf("kill daemon process %d: %w", pid, err)
	}
	result.ForcedKill = true
	_ = os.Remove(pidPath)
	_ = os.Remove(LockPath(cfg))
	return result, nil
}

// Restart stops the daemon if running, then ensures it is started.
func Restart(cfg *config.Config, executablePath string, opts LaunchOptions, stopGracePeriod, startWaitTimeout time.Duration) (RestartResult, error) {
	stopResult, stopErr := StopAndTerminate(cfg, stopGracePeriod)
	if stopErr != nil && !errors.Is(stopErr, ErrDaemonNotRunning) {
		return RestartResult{}, stopErr
	}

	startResult, err := EnsureStarted(cfg, executablePath, opts, startWaitTimeout)
	if err != nil {
		return RestartResult{}, err
	}

	return RestartResult{
		WasRunning: stopErr == nil,
		Stop:       stopResult,
		Start:      startResult,
	}, nil
}

// BuildStatusSnapshot probes the daemon and applies offline fallbacks so the
// status command renders something useful either way.
func BuildStatusSnapshot(ctx context.Context, cfg *config.Config) (*StatusSnapshot, error) {
	if cfg == nil {
		return nil, errors.New("configuration not available")
	}

	snapshot := &StatusSnapshot{LockPath: LockPath(cfg)}

	client, err := httpapi.NewClient(cfg.Server.Bind)
	if err != nil {
		return nil, err
	}
	snapshot.APIAddress = client.BaseURL()

	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	_, healthErr := client.Health(probeCtx)
	cancel()
	snapshot.Running = healthErr == nil

	if pid, pidErr := ReadPID(PIDPath(cfg)); pidErr == nil {
		snapshot.PID = pid
	}

	snapshot.Checks = append(snapshot.Checks,
		preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		preflight.CheckLiveFromConfig(cfg),
	)
	return snapshot, nil
}

// BuildSystemChecks renders status lines from a snapshot.
func BuildSystemChecks(snapshot *StatusSnapshot) []StatusLine {
	if snapshot == nil {
		return nil
	}

	lines := make([]StatusLine, 0, 4)
	if snapshot.Running {
		detail := "Running"
		if snapshot.PID > 0 {
			detail = fmt.Sprintf("Running (pid %d)", snapshot.PID)
		}
		lines = append(lines, StatusLine{Label: "Daemon", Severity: "ok", Detail: detail})
		lines = append(lines, StatusLine{Label: "API", Severity: "ok", Detail: snapshot.APIAddress})
	} else {
		lines = append(lines, StatusLine{Label: "Daemon", Severity: "warn", Detail: "Not running (run `livebridge start`)"})
		lines = append(lines, StatusLine{Label: "API", Severity: "info", Detail: "Offline"})
	}

	for _, check := range snapshot.Checks {
		severity := "warn"
		if check.Passed {
			severity = "ok"
		}
		lines = append(lines, StatusLine{Label: check.Name, Severity: severity, Detail: check.Detail})
	}
	return lines
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func waitForExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return !processAlive(pid)
}
