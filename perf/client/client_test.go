package client

import (
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sultanavtajev/simpleperf/perf/common"
	"github.com/sultanavtajev/simpleperf/perf/server"
	"github.com/sultanavtajev/simpleperf/perf/transport/tcp"
)

// TestSplitBudget tests the equal-split policy: budgets always sum to the
// total, with the remainder on the first connection
func TestSplitBudget(t *testing.T) {
	cases := []struct {
		total int64
		p     int
	}{
		{1000000, 1},
		{1000000, 4},
		{10, 3},
		{7, 8},
		{0, 4},
	}

	for _, c := range cases {
		budgets := splitBudget(c.total, c.p)

		if len(budgets) != c.p {
			t.Fatalf("splitBudget(%d, %d) returned %d budgets", c.total, c.p, len(budgets))
		}

		var sum int64
		for i, b := range budgets {
			sum += b
			if i > 0 && c.total > 0 && b != c.total/int64(c.p) {
				t.Errorf("splitBudget(%d, %d)[%d] = %d, want equal share %d",
					c.total, c.p, i, b, c.total/int64(c.p))
			}
		}

		want := c.total
		if want < 0 {
			want = 0
		}
		if sum != want {
			t.Errorf("splitBudget(%d, %d) sums to %d", c.total, c.p, sum)
		}
	}
}

// startTestServer runs a measurement server on an ephemeral loopback port
// and returns its port and summary output
func startTestServer(t *testing.T) (int, *syncBuilder) {
	t.Helper()

	out := &syncBuilder{}
	config := common.ServerConfig{
		BindAddress: "127.0.0.1",
		Port:        0,
		Transport:   "tcp",
		ChunkSize:   32 * 1024,
		Unit:        common.UnitMB,
	}

	srv := server.NewPerfServer(config, tcp.NewTCPListenerConnector(), common.NewReporter(out, config.Unit))
	if err := srv.Listen(); err != nil {
		t.Fatalf("server failed to listen: %v", err)
	}
	go srv.Serve()
	t.Cleanup(srv.Shutdown)

	_, portStr, err := net.SplitHostPort(srv.Addr().String())
	if err != nil {
		t.Fatalf("failed to parse server address: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	return port, out
}

// syncBuilder guards the output buffer against the server's handler
// goroutines
type syncBuilder struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *syncBuilder) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *syncBuilder) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// TestDispatcherByteBudget tests a full budget-bounded run: client and
// server report the same total with no bytes lost in transit
func TestDispatcherByteBudget(t *testing.T) {
	port, serverOut := startTestServer(t)

	var clientOut strings.Builder
	config := common.ClientConfig{
		ServerAddress: "127.0.0.1",
		Port:          port,
		Transport:     "tcp",
		Parallel:      1,
		ByteBudget:    1000000,
		ChunkSize:     32 * 1024,
		Unit:          common.UnitMB,
	}

	d := NewDispatcher(config, tcp.NewTCPDialerConnector(), common.NewReporter(&clientOut, config.Unit))
	summary, err := d.Run()
	if err != nil {
		t.Fatalf("dispatcher failed: %v", err)
	}

	if summary.TotalBytes != config.ByteBudget {
		t.Errorf("client total = %d, want %d", summary.TotalBytes, config.ByteBudget)
	}
	if len(summary.Conns) != 1 {
		t.Errorf("connection count = %d, want 1", len(summary.Conns))
	}
	if !strings.Contains(clientOut.String(), "1.0 MB") {
		t.Errorf("client summary missing transfer amount:\n%s", clientOut.String())
	}

	// Wait for the server-side session to finish its summary, then compare
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !strings.Contains(serverOut.String(), "MB") {
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(serverOut.String(), "1.0 MB") {
		t.Errorf("server reported a different total:\n%s", serverOut.String())
	}
}

// TestDispatcherParallelDuration tests a duration-bounded run over four
// parallel connections: the aggregate covers all streams and elapsed is
// the maximum, not the sum
func TestDispatcherParallelDuration(t *testing.T) {
	port, _ := startTestServer(t)

	var clientOut strings.Builder
	const duration = 300 * time.Millisecond
	config := common.ClientConfig{
		ServerAddress: "127.0.0.1",
		Port:          port,
		Transport:     "tcp",
		Parallel:      4,
		Duration:      duration,
		ChunkSize:     16 * 1024,
		Unit:          common.UnitMB,
	}

	d := NewDispatcher(config, tcp.NewTCPDialerConnector(), common.NewReporter(&clientOut, config.Unit))
	summary, err := d.Run()
	if err != nil {
		t.Fatalf("dispatcher failed: %v", err)
	}

	if len(summary.Conns) != 4 {
		t.Fatalf("connection count = %d, want 4", len(summary.Conns))
	}

	var sum int64
	for _, c := range summary.Conns {
		if c.Err != nil {
			t.Errorf("connection %d failed: %v", c.ID, c.Err)
		}
		if c.Bytes == 0 {
			t.Errorf("connection %d moved no bytes", c.ID)
		}
		sum += c.Bytes
	}
	if summary.TotalBytes != sum {
		t.Errorf("aggregate = %d, want sum of connections %d", summary.TotalBytes, sum)
	}

	if summary.Elapsed < duration {
		t.Errorf("elapsed = %v, want >= %v", summary.Elapsed, duration)
	}
	if summary.Elapsed > 4*duration {
		t.Errorf("elapsed = %v looks summed, want max of per-connection times", summary.Elapsed)
	}
}

// TestDispatcherConnectRefused tests that a closed port is reported as a
// connect failure immediately, distinct from a zero-throughput success
func TestDispatcherConnectRefused(t *testing.T) {
	// Grab a port that nothing listens on
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	_, portStr, _ := net.SplitHostPort(listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	listener.Close()

	var clientOut strings.Builder
	config := common.ClientConfig{
		ServerAddress: "127.0.0.1",
		Port:          port,
		Transport:     "tcp",
		Parallel:      1,
		Duration:      time.Second,
		ChunkSize:     16 * 1024,
		Unit:          common.UnitMB,
	}

	start := time.Now()
	d := NewDispatcher(config, tcp.NewTCPDialerConnector(), common.NewReporter(&clientOut, config.Unit))
	summary, err := d.Run()

	if err == nil {
		t.Fatal("dispatcher should have failed")
	}
	if kind := common.KindOf(err); kind != common.FailureConnect {
		t.Errorf("failure kind = %s, want %s", kind, common.FailureConnect)
	}
	if summary.TotalBytes != 0 {
		t.Errorf("total = %d, want 0", summary.TotalBytes)
	}
	if len(summary.Failed()) != 1 {
		t.Errorf("failed count = %d, want 1", len(summary.Failed()))
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("connect failure took %v, should be immediate", time.Since(start))
	}
}

// TestDispatcherIntervalReports tests that a run with interval reporting
// produces tick rows before the final summary
func TestDispatcherIntervalReports(t *testing.T) {
	port, _ := startTestServer(t)

	var clientOut strings.Builder
	config := common.ClientConfig{
		ServerAddress: "127.0.0.1",
		Port:          port,
		Transport:     "tcp",
		Parallel:      1,
		Duration:      220 * time.Millisecond,
		Interval:      50 * time.Millisecond,
		ChunkSize:     16 * 1024,
		Unit:          common.UnitKB,
	}

	d := NewDispatcher(config, tcp.NewTCPDialerConnector(), common.NewReporter(&clientOut, config.Unit))
	if _, err := d.Run(); err != nil {
		t.Fatalf("dispatcher failed: %v", err)
	}

	// Header + ticks + final summary; ~4 ticks expected at 220ms/50ms
	lines := strings.Split(strings.TrimRight(clientOut.String(), "\n"), "\n")
	ticks := len(lines) - 2
	if ticks < 2 || ticks > 6 {
		t.Errorf("tick rows = %d, want roughly 4:\n%s", ticks, clientOut.String())
	}

	// The summary is the last row and starts at 0.0
	if !strings.Contains(lines[len(lines)-1], "0.0 - ") {
		t.Errorf("last row is not the session summary: %q", lines[len(lines)-1])
	}
}
