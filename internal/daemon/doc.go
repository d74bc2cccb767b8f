// Package daemon coordinates the long-running livebridge process.
//
// It wires configuration, the Live socket client, the dispatcher, and the
// HTTP server into a single lifecycle with flock-based locking to prevent
// multiple instances. Startup is deliberately tolerant: preflight failures
// and an unreachable Live endpoint are logged, not fatal, so the HTTP
// surface comes up regardless and commands redial on demand.
//
// Keep orchestration logic here: request handling lives in httpapi and
// bridge while the daemon focuses on startup, shutdown, and status.
package daemon
