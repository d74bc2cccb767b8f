// Package httpapi exposes the bridge over HTTP and provides the matching
// client used by CLI commands. The surface is intentionally small: a health
// probe, an add-device endpoint, and a CORS preflight; everything else is a
// routing error.
package httpapi
