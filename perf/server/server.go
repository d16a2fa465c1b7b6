package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sultanavtajev/simpleperf/perf/common"
	"github.com/sultanavtajev/simpleperf/perf/stream"
	"github.com/sultanavtajev/simpleperf/perf/transport"
)

var Logger = logger.GetLogger("server")

// Cumulative counters exported on the optional /metrics endpoint
var (
	metricBytesReceived = metrics.NewCounter("simpleperf_bytes_received_total")
	metricSessionsTotal = metrics.NewCounter("simpleperf_sessions_total")
)

// --------------------------------------------------------------------------
// Server
// --------------------------------------------------------------------------

// PerfServer accepts connections and measures the bytes each peer sends.
// Every accepted connection becomes its own session with one receive-role
// connection, handled concurrently with all other sessions - there is no
// connection limit and one peer's failure never affects another.
type PerfServer struct {
	config    common.ServerConfig
	connector transport.IListenerConnector
	reporter  *common.Reporter

	listener net.Listener
	sessions *xsync.MapOf[uint64, *stream.Session]
	nextID   atomic.Uint64
	stopping atomic.Bool
	wg       sync.WaitGroup
}

// NewPerfServer creates a new measurement server
//
// Usage:
//
//	s := server.NewPerfServer(config, tcp.NewTCPListenerConnector(), reporter)
//
//	if err := s.Listen(); err != nil {
//		return err
//	}
//	return s.Serve()
func NewPerfServer(
	config common.ServerConfig,
	connector transport.IListenerConnector,
	reporter *common.Reporter,
) *PerfServer {
	return &PerfServer{
		config:    config,
		connector: connector,
		reporter:  reporter,
		sessions:  xsync.NewMapOf[uint64, *stream.Session](),
	}
}

// Listen binds the configured endpoint and starts the metrics endpoint if
// one is configured. A bind failure is fatal and never retried.
func (s *PerfServer) Listen() error {
	listener, err := s.connector.Listen(s.config)
	if err != nil {
		return common.NewBindFailure(err)
	}
	s.listener = listener

	if s.config.MetricsEndpoint != "" {
		go s.serveMetrics()
	}

	Logger.Infof("a simpleperf server is listening on %s (%s)",
		listener.Addr(), s.connector.GetName())

	return nil
}

// Addr returns the bound listen address. Only valid after Listen.
func (s *PerfServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until Shutdown is called, spinning up one
// handler goroutine per peer. Blocks.
func (s *PerfServer) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			Logger.Errorf("accept error: %v", err)
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// Shutdown stops accepting new connections and waits for the in-flight
// sessions to finish their summaries.
func (s *PerfServer) Shutdown() {
	s.stopping.Store(true)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleConnection runs one receive session for an accepted peer
func (s *PerfServer) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	if err := s.connector.UpgradeConnection(conn, s.config.TransportConf); err != nil {
		Logger.Warningf("failed to upgrade connection: %v", err)
	}

	id := s.nextID.Add(1)
	peer := peerLabel(conn, id)

	session := stream.NewSession(id)
	defer session.Close()

	c := stream.NewConnection(1, peer, conn, stream.RoleReceiver)
	session.Add(c)

	// Register for live observation (metrics gauge), deregister when done
	s.sessions.Store(id, session)
	defer s.sessions.Delete(id)

	Logger.Infof("session %d: peer %s connected", id, peer)
	session.Start()

	result := c.RunReceiver(s.config.ChunkSize)

	metricBytesReceived.Add(int(result.Bytes))
	metricSessionsTotal.Inc()

	if result.Err != nil {
		Logger.Errorf("session %d: transfer from %s failed: %v", id, peer, result.Err)
	}

	summary := stream.Aggregate([]common.ConnResult{result})
	s.reporter.Summary(peer, &summary)
}

// serveMetrics exposes the Prometheus metrics endpoint
func (s *PerfServer) serveMetrics() {
	metrics.GetOrCreateGauge("simpleperf_sessions_active", func() float64 {
		return float64(s.sessions.Size())
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	Logger.Infof("metrics endpoint listening on %s", s.config.MetricsEndpoint)
	if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
		Logger.Errorf("metrics endpoint failed: %v", err)
	}
}

// peerLabel returns a display label for an accepted connection. Unix socket
// peers have no meaningful address, so fall back to the session id.
func peerLabel(conn net.Conn, id uint64) string {
	if addr := conn.RemoteAddr(); addr != nil && addr.String() != "" && addr.String() != "@" {
		return addr.String()
	}
	return fmt.Sprintf("peer-%d", id)
}
