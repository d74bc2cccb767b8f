// Package main hosts the livebridge CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into HTTP
// calls against the daemon, device loading requests, status reporting, and
// configuration scaffolding. It centralizes configuration resolution and
// daemon endpoint discovery so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
