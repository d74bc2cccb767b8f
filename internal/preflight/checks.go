package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"livebridge/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckLive verifies that the Live remote-control socket accepts connections.
// A single probe connection is opened and closed; no command is sent, so a
// passing check does not prove the remote script answers.
func CheckLive(ctx context.Context, cfg *config.Config) Result {
	const name = "Live remote"

	address := cfg.Live.Address()
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	dialer := net.Dialer{Timeout: time.Duration(cfg.Live.DialTimeout) * time.Second}
	conn, err := dialer.DialContext(checkCtx, "tcp", address)
	if err != nil {
		return Result{Name: name, Detail: summarizeDialError(address, err)}
	}
	conn.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", address)}
}

// summarizeDialError produces a human-readable summary for probe failures.
func summarizeDialError(address string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s (error: connection timed out)", address)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("%s (error: connection timed out)", address)
	}
	return fmt.Sprintf("%s (error: %v)", address, err)
}
