// Package server implements the receiving side of the measurement: it
// binds a listener, accepts an unbounded number of concurrent peers, drains
// each peer's byte stream while counting, and emits one summary row per
// finished session. Optionally exposes cumulative counters on a Prometheus
// /metrics endpoint.
package server
