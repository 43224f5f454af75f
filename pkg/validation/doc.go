// Package validation turns raw command-line inputs into the typed historic
// query parameters the registry expects.
//
// It is deliberately pure: no I/O, no state. Earlier revisions of this
// workflow disagreed on whether bare day counts were accepted alongside
// ISO-8601 durations; this implementation accepts both and keeps the
// percentage bounds check.
package validation
