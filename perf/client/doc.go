// Package client implements the sending side of the measurement: a
// dispatcher that opens N parallel connections, pumps opaque filler bytes
// over each until a shared duration or byte budget is exhausted, optionally
// samples the live rate at a fixed interval, and aggregates the
// per-connection results into one session summary.
package client
