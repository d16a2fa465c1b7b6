// Package stream implements the transfer-and-measurement core: the
// Connection pump loops that fill or drain one socket while counting bytes,
// the Session grouping connections under one stop condition, the interval
// Sampler observing live counters, and the aggregation of per-connection
// results into one session summary.
//
// Concurrency model: every Connection is pumped by exactly one goroutine
// that owns the socket and is the only writer of the byte counter. The
// counter is atomic so the Sampler and Aggregator can observe it while the
// transfer is running; a slightly stale snapshot is expected and fine.
package stream
