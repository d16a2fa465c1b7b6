package common

import (
	"time"
)

// --------------------------------------------------------------------------
// Measurement
// --------------------------------------------------------------------------

// Measurement is one point-in-time rate observation produced during an
// in-progress session. From and To are offsets from the session start, so
// To-From is the wall-clock time covered by this observation (not the
// nominal sampling interval). Measurements are ephemeral - formatted and
// discarded.
type Measurement struct {
	// From is the offset of the previous observation (zero for the first)
	From time.Duration
	// To is the offset of this observation
	To time.Duration
	// Bytes is the byte delta since the previous observation
	Bytes int64
}

// Rate returns the observed rate in bytes per second.
func (m Measurement) Rate() float64 {
	return Rate(m.Bytes, m.To-m.From)
}

// --------------------------------------------------------------------------
// Results
// --------------------------------------------------------------------------

// ConnResult is the terminal state of one connection's handler. Bytes
// counted before a failure are preserved, so a ConnResult can carry both a
// non-zero byte count and an error.
type ConnResult struct {
	// ID identifies the connection within its session
	ID uint64
	// Remote is the peer address (local address on the client side)
	Remote string
	// Bytes is the final byte counter value
	Bytes int64
	// Elapsed is the wall-clock time from start to terminal state
	Elapsed time.Duration
	// Err is set for connect/io failures, nil for clean completion
	Err error
}

// SessionResult is the aggregate summary of one measured transfer run.
type SessionResult struct {
	// Conns holds the per-connection terminal states
	Conns []ConnResult
	// TotalBytes is the sum of all connection byte counters
	TotalBytes int64
	// Elapsed is the maximum (not sum) of the per-connection elapsed times
	Elapsed time.Duration
}

// Failed returns the results of connections that ended with an error.
func (r *SessionResult) Failed() []ConnResult {
	var failed []ConnResult
	for _, c := range r.Conns {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// Rate returns the aggregate transfer rate in bytes per second (0 if no
// time elapsed).
func (r *SessionResult) Rate() float64 {
	return Rate(r.TotalBytes, r.Elapsed)
}
