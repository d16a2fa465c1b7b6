package client

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/sultanavtajev/simpleperf/perf/common"
	"github.com/sultanavtajev/simpleperf/perf/stream"
	"github.com/sultanavtajev/simpleperf/perf/transport"
)

var Logger = logger.GetLogger("client")

// --------------------------------------------------------------------------
// Dispatcher
// --------------------------------------------------------------------------

// Dispatcher opens the configured number of parallel connections to the
// target and pumps filler bytes over each until the shared stop condition
// fires, then reports the aggregate. A connect failure is fatal only for
// its own connection; the dispatcher still waits for and reports the
// remaining ones, and every failure is surfaced in the returned error
// alongside the summary.
type Dispatcher struct {
	config    common.ClientConfig
	connector transport.IDialerConnector
	reporter  *common.Reporter
}

// NewDispatcher creates a new client dispatcher
func NewDispatcher(
	config common.ClientConfig,
	connector transport.IDialerConnector,
	reporter *common.Reporter,
) *Dispatcher {
	return &Dispatcher{
		config:    config,
		connector: connector,
		reporter:  reporter,
	}
}

// Run executes one measured transfer session and returns its summary. The
// returned error is non-nil if any connection failed; the summary then
// still covers the bytes the successful connections moved.
func (d *Dispatcher) Run() (common.SessionResult, error) {
	endpoint := d.config.Endpoint()

	session := stream.NewSession(1)
	defer session.Close()

	// Dial all connections up front. Failed dials become failed results
	// immediately; the transfer runs on whatever connected.
	var conns []*stream.Connection
	var failed []common.ConnResult

	for i := 0; i < d.config.Parallel; i++ {
		id := uint64(i + 1)

		sock, err := d.connector.Connect(endpoint)
		if err != nil {
			err = common.NewConnectFailure(err)
			Logger.Errorf("connection %d: %v", id, err)
			failed = append(failed, common.ConnResult{ID: id, Remote: endpoint, Err: err})
			continue
		}

		if err := d.connector.UpgradeConnection(sock, d.config.TransportConf); err != nil {
			Logger.Warningf("connection %d: failed to upgrade: %v", id, err)
		}

		label := sock.LocalAddr().String()
		Logger.Infof("connection %d: %s connected to %s (%s)",
			id, label, endpoint, d.connector.GetName())

		c := stream.NewConnection(id, label, sock, stream.RoleSender)
		session.Add(c)
		conns = append(conns, c)
	}

	if len(conns) == 0 {
		summary := stream.Aggregate(failed)
		return summary, fmt.Errorf("all %d connections to %s failed: %w",
			d.config.Parallel, endpoint, failed[0].Err)
	}

	budgets := splitBudget(d.config.ByteBudget, len(conns))
	session.Start()

	// Optional interval sampler, observing the aggregate counters without
	// ever pausing the transfer
	stopCh := make(chan struct{})
	var samplerDone chan struct{}
	if d.config.Interval > 0 {
		sampler := stream.NewSampler(session, d.config.Interval, func(m common.Measurement) {
			d.reporter.Tick(conns[0].Label(), m)
		})

		samplerDone = make(chan struct{})
		go func() {
			defer close(samplerDone)
			sampler.Run(stopCh)
		}()
	}

	// One pump goroutine per connection; each writes only its own slot
	results := make([]common.ConnResult, len(conns))
	var wg sync.WaitGroup
	for i, c := range conns {
		wg.Add(1)
		go func(i int, c *stream.Connection) {
			defer wg.Done()
			results[i] = c.RunSender(stream.SendPlan{
				ChunkSize: d.config.ChunkSize,
				Duration:  d.config.Duration,
				Budget:    budgets[i],
			})
		}(i, c)
	}
	wg.Wait()

	// Stop sampling before the summary so no tick lands after the stop
	// condition fired
	close(stopCh)
	if samplerDone != nil {
		<-samplerDone
	}

	summary := stream.Aggregate(append(results, failed...))

	// With multiple connections, print one row per connection before the
	// aggregate
	if len(conns) > 1 {
		for _, r := range results {
			d.reporter.Row(r.Remote, 0, r.Elapsed, r.Bytes)
		}
	}
	d.reporter.Summary(d.summaryLabel(conns), &summary)

	Logger.Debugf("session mean rate: %.0f B/s", session.MeanRate())

	return summary, joinFailures(summary.Failed())
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// summaryLabel returns the id column for the aggregate row: the single
// connection's address, or "total" when several streams are summed
func (d *Dispatcher) summaryLabel(conns []*stream.Connection) string {
	if len(conns) == 1 {
		return conns[0].Label()
	}
	return "total"
}

// splitBudget divides a total byte budget equally across p connections,
// with the remainder going to the first one. The per-connection budgets
// always sum to the total. A zero total yields all-zero budgets (duration
// mode).
func splitBudget(total int64, p int) []int64 {
	budgets := make([]int64, p)
	if total <= 0 {
		return budgets
	}

	base := total / int64(p)
	for i := range budgets {
		budgets[i] = base
	}
	budgets[0] += total % int64(p)

	return budgets
}

// joinFailures combines the failed connections' errors, nil if none failed
func joinFailures(failed []common.ConnResult) error {
	var errs []error
	for _, r := range failed {
		errs = append(errs, fmt.Errorf("connection %d: %w", r.ID, r.Err))
	}
	return errors.Join(errs...)
}
