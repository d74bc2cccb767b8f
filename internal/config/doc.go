// Package config loads, normalizes, and validates livebridge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LIVEBRIDGE_LIVE_HOST. The Config type centralizes every knob the daemon and
// CLI need, from the HTTP bind address to the remote-control endpoint and its
// exchange timeouts.
//
// Always obtain settings through this package so downstream code receives
// sanitized addresses, canonical log formats, and clear validation errors.
package config
