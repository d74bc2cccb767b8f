// Package live implements the TCP client for Ableton Live's remote-control
// protocol.
//
// The remote side accepts one JSON command envelope per exchange and answers
// with a status-tagged reply. Client owns a single persistent socket guarded
// by a mutex so concurrent HTTP requests serialize onto it; every exchange
// runs under a bounded deadline, and any transport failure closes the socket
// so the next command dials fresh rather than retrying in place.
//
// Errors returned here are plain transport or remote-rejection messages; the
// dispatch layer is responsible for tagging them with an outcome kind.
package live
