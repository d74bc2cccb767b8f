package preflight

import (
	"context"

	"livebridge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config. A failed check
// never blocks startup; the daemon logs the results and keeps serving so the
// HTTP surface stays available while Live is down.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckLive(ctx, cfg))
	return results
}
