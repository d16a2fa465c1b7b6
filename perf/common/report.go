package common

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// Reporter
// --------------------------------------------------------------------------

// Reporter writes the human-readable statistics table: one row per interval
// tick and one summary row per finished connection or session. All rows go
// to the same writer, so concurrent sessions serialize through a mutex.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	unit   Unit
	header bool
}

// NewReporter creates a reporter that writes rows in the given unit.
func NewReporter(out io.Writer, unit Unit) *Reporter {
	return &Reporter{out: out, unit: unit}
}

// Row writes one statistics row for the given id and time span.
func (r *Reporter) Row(id string, from, to time.Duration, bytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.header {
		fmt.Fprintf(r.out, "%-22s%-16s%-14s%s\n", "ID", "Interval", "Transfer", "Rate")
		r.header = true
	}

	interval := fmt.Sprintf("%.1f - %.1f", from.Seconds(), to.Seconds())
	fmt.Fprintf(r.out, "%-22s%-16s%-14s%s\n",
		id, interval, FormatBytes(bytes, r.unit), FormatRate(bytes, to-from, r.unit))
}

// Tick writes one interval observation row.
func (r *Reporter) Tick(id string, m Measurement) {
	r.Row(id, m.From, m.To, m.Bytes)
}

// Summary writes the final aggregate row for a session.
func (r *Reporter) Summary(id string, result *SessionResult) {
	r.Row(id, 0, result.Elapsed, result.TotalBytes)
}
