// Package services defines shared utilities consumed by the HTTP surface and
// the remote-control integration.
//
// Key responsibilities:
//   - Context helpers that stamp request correlation identifiers and remote
//     command names for logging and tracing.
//   - Structured error markers plus the Wrap helper that tag failures with an
//     outcome kind (validation vs remote vs routing) and the HTTP status each
//     kind maps to.
//
// Use these helpers when wiring new operations so error handling and
// observability stay uniform across the bridge.
package services
