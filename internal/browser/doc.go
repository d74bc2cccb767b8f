// Package browser maps device names to Ableton Live browser item URIs.
//
// Live's remote-control surface loads devices by browser URI rather than by
// display name, so the bridge keeps a small table of stock audio effects and
// derives URIs for everything else from the name itself. Resolution is pure
// and total: exact table hits win, unknown names take the percent-encoded
// fallback, and no input produces an error.
//
// Lookups are byte-exact on purpose. Do not normalize casing or whitespace
// here; a name that differs from the table entry must flow through the
// fallback unchanged so Live decides what it matches.
package browser
