// Package progress turns search events into per-worker status.
//
// A [Board] keeps one status record per worker and can be snapshotted at
// any time, for example by the HTTP status endpoint. A [Terminal] renders
// one line per worker, redrawn in place when the output is a terminal.
// [Multi] fans events out to several sinks.
package progress
