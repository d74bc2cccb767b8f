package preflight

import (
	"context"
	"strings"

	"livebridge/internal/config"
)

// CheckLiveFromConfig evaluates Live reachability from config alone. Status
// UIs use it when no daemon is running to answer on their behalf.
func CheckLiveFromConfig(cfg *config.Config) Result {
	const name = "Live remote"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Live.Host) == "" {
		return Result{Name: name, Detail: "Missing host"}
	}
	if cfg.Live.Port <= 0 {
		return Result{Name: name, Detail: "Missing port"}
	}
	return CheckLive(context.Background(), cfg)
}
