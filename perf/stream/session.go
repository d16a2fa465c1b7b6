package stream

import (
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/sultanavtajev/simpleperf/perf/common"
)

// --------------------------------------------------------------------------
// Session
// --------------------------------------------------------------------------

// Session groups the connections of one measured transfer run. All member
// connections must be added before their pump goroutines start; after that
// the set is immutable and only the per-connection byte counters change.
//
// A session carries a throughput meter that the sampler feeds with observed
// deltas, giving a smoothed rate alongside the exact interval measurements.
type Session struct {
	id    uint64
	start time.Time
	conns []*Connection
	meter gometrics.Meter
}

// NewSession creates an empty session.
func NewSession(id uint64) *Session {
	return &Session{
		id:    id,
		meter: gometrics.NewMeter(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uint64 {
	return s.id
}

// Add registers a connection. Must not be called once handlers run.
func (s *Session) Add(c *Connection) {
	s.conns = append(s.conns, c)
}

// Connections returns the member connections.
func (s *Session) Connections() []*Connection {
	return s.conns
}

// Start marks the session start time. Called right before the pump
// goroutines are launched; the sampler uses this as its zero baseline.
func (s *Session) Start() {
	s.start = time.Now()
}

// Started returns the session start time.
func (s *Session) Started() time.Time {
	return s.start
}

// Bytes returns a snapshot of the aggregate byte count across all member
// connections. Snapshots taken while handlers run may lag the in-flight
// writes slightly, which is acceptable for live sampling.
func (s *Session) Bytes() int64 {
	var total int64
	for _, c := range s.conns {
		total += c.Bytes()
	}
	return total
}

// Mark feeds an observed byte delta into the throughput meter.
func (s *Session) Mark(delta int64) {
	s.meter.Mark(delta)
}

// MeanRate returns the meter's mean throughput in bytes per second since
// the session started.
func (s *Session) MeanRate() float64 {
	return s.meter.Snapshot().RateMean()
}

// Close releases the session's meter. Must be called once the session is
// finished.
func (s *Session) Close() {
	s.meter.Stop()
}

// --------------------------------------------------------------------------
// Aggregator
// --------------------------------------------------------------------------

// Aggregate combines per-connection terminal states into one session
// summary: total bytes is the sum of the final counters, elapsed is the
// maximum (not sum) of the per-connection elapsed times.
func Aggregate(results []common.ConnResult) common.SessionResult {
	summary := common.SessionResult{
		Conns: results,
	}

	for _, r := range results {
		summary.TotalBytes += r.Bytes
		if r.Elapsed > summary.Elapsed {
			summary.Elapsed = r.Elapsed
		}
	}

	return summary
}
