// Package perf contains the throughput measurement core. It acts as the
// engine behind the simpleperf CLI: connection establishment, concurrent
// byte-stream pumping, periodic rate sampling and final aggregate
// reporting.
//
// The package is organized into several subpackages:
//
//   - common: Shared data structures and utilities - configuration, units
//     and rate formatting, the failure taxonomy, results and logging.
//
//   - transport: Connector abstractions with pluggable implementations
//     (TCP, Unix sockets) that hand tuned raw byte streams to the core.
//
//   - stream: The transfer loops, sessions, interval sampling and result
//     aggregation.
//
//   - server: The receiving side - accept loop and per-peer sessions.
//
//   - client: The sending side - the parallel connection dispatcher.
package perf
