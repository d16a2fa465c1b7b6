package stream

import (
	"time"

	"github.com/sultanavtajev/simpleperf/perf/common"
)

// --------------------------------------------------------------------------
// Sampler
// --------------------------------------------------------------------------

// Sampler periodically observes a session's aggregate byte counter and
// emits one Measurement per tick. It never blocks the pump goroutines - it
// only reads their atomic counters. Rates are computed against the actual
// wall-clock time between observations, not the nominal interval, to
// tolerate scheduling jitter.
type Sampler struct {
	session  *Session
	interval time.Duration
	emit     func(common.Measurement)

	prevBytes int64
	prevTime  time.Time
}

// NewSampler creates a sampler for a started session. The baseline is zero
// bytes at session start; the emit callback receives one Measurement per
// tick.
func NewSampler(session *Session, interval time.Duration, emit func(common.Measurement)) *Sampler {
	return &Sampler{
		session:  session,
		interval: interval,
		emit:     emit,
		prevTime: session.Started(),
	}
}

// Observe takes one measurement at the given instant and advances the
// baseline. Exposed separately from Run so the sampling arithmetic is
// testable without a ticker.
func (s *Sampler) Observe(now time.Time) common.Measurement {
	total := s.session.Bytes()
	delta := total - s.prevBytes

	m := common.Measurement{
		From:  s.prevTime.Sub(s.session.Started()),
		To:    now.Sub(s.session.Started()),
		Bytes: delta,
	}

	// Feed the session meter with the same delta
	s.session.Mark(delta)

	s.prevBytes = total
	s.prevTime = now
	return m
}

// Run ticks at the configured interval until the stop channel is closed.
// There is no tick at t=0 and none after stop fires.
func (s *Sampler) Run(stopCh <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			s.emit(s.Observe(now))
		}
	}
}
