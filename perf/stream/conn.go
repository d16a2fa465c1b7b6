package stream

import (
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/sultanavtajev/simpleperf/perf/common"
)

var Logger = logger.GetLogger("stream")

// --------------------------------------------------------------------------
// Role Definition
// --------------------------------------------------------------------------

// Role defines the direction of a connection's pump loop.
type Role uint8

const (
	// RoleSender writes filler chunks until the stop condition fires
	RoleSender Role = iota
	// RoleReceiver drains the socket until the peer closes the stream
	RoleReceiver
)

// String returns the string representation of a Role.
func (r Role) String() string {
	switch r {
	case RoleSender:
		return "sender"
	case RoleReceiver:
		return "receiver"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Connection
// --------------------------------------------------------------------------

// SendPlan is the stop condition for a send-role connection. Exactly one of
// Duration and Budget is active: a positive Budget wins over Duration.
type SendPlan struct {
	// ChunkSize is the size of each filler write
	ChunkSize int
	// Duration is the target transfer time (used when Budget == 0)
	Duration time.Duration
	// Budget is the exact number of bytes to send (0 = use Duration)
	Budget int64
}

// Connection owns one established socket and its byte counter. The counter
// is only ever incremented by the connection's own pump goroutine; other
// components read it as a snapshot via Bytes().
type Connection struct {
	id    uint64
	label string
	conn  net.Conn
	role  Role

	bytes atomic.Int64
	start time.Time
}

// NewConnection wraps an established socket. The label identifies the
// connection in report rows (typically an ip:port address).
func NewConnection(id uint64, label string, conn net.Conn, role Role) *Connection {
	return &Connection{
		id:    id,
		label: label,
		conn:  conn,
		role:  role,
	}
}

// ID returns the connection's identifier within its session.
func (c *Connection) ID() uint64 {
	return c.id
}

// Label returns the connection's display label.
func (c *Connection) Label() string {
	return c.label
}

// Role returns the connection's pump direction.
func (c *Connection) Role() Role {
	return c.role
}

// Bytes returns a snapshot of the byte counter. Safe to call concurrently
// with the pump loop; the value never decreases.
func (c *Connection) Bytes() int64 {
	return c.bytes.Load()
}

// --------------------------------------------------------------------------
// Pump Loops
// --------------------------------------------------------------------------

// RunSender pumps filler chunks into the socket until the plan's stop
// condition fires, then closes the write side so the peer sees a clean end
// of stream. The socket is closed on every exit path. Bytes written before
// an I/O error are preserved in the result.
func (c *Connection) RunSender(plan SendPlan) common.ConnResult {
	defer c.conn.Close()

	chunk := make([]byte, plan.ChunkSize)
	c.start = time.Now()

	var err error
	if plan.Budget > 0 {
		err = c.sendBudget(chunk, plan.Budget)
	} else {
		err = c.sendDuration(chunk, plan.Duration)
	}

	// Half-close to signal end of transfer; the receiver terminates on the
	// resulting zero-length read
	if cerr := closeWrite(c.conn); cerr != nil && err == nil {
		Logger.Debugf("conn %d: close write side: %v", c.id, cerr)
	}

	elapsed := time.Since(c.start)
	if err != nil {
		err = common.NewIOFailure(err)
	}

	return common.ConnResult{
		ID:      c.id,
		Remote:  c.label,
		Bytes:   c.bytes.Load(),
		Elapsed: elapsed,
		Err:     err,
	}
}

// sendBudget writes exactly budget bytes (last chunk truncated)
func (c *Connection) sendBudget(chunk []byte, budget int64) error {
	remaining := budget
	for remaining > 0 {
		n := int64(len(chunk))
		if remaining < n {
			n = remaining
		}

		written, err := c.conn.Write(chunk[:n])
		c.bytes.Add(int64(written))
		remaining -= int64(written)

		if err != nil {
			return err
		}
	}
	return nil
}

// sendDuration writes chunks until the duration has elapsed. The stop
// condition is polled between writes, so cancellation latency is bounded
// by one chunk's transfer time.
func (c *Connection) sendDuration(chunk []byte, duration time.Duration) error {
	for time.Since(c.start) < duration {
		written, err := c.conn.Write(chunk)
		c.bytes.Add(int64(written))

		if err != nil {
			return err
		}
	}
	return nil
}

// RunReceiver drains the socket in fixed-size chunks until the peer closes
// the stream. A zero-length read (EOF) is the normal terminal state, not an
// error; any other I/O error is reported as an io failure with the bytes
// counted so far preserved.
func (c *Connection) RunReceiver(chunkSize int) common.ConnResult {
	defer c.conn.Close()

	buf := make([]byte, chunkSize)
	c.start = time.Now()

	var err error
	for {
		n, rerr := c.conn.Read(buf)
		c.bytes.Add(int64(n))

		if rerr == io.EOF {
			// Peer-initiated close, clean end of transfer
			break
		}
		if rerr != nil {
			err = common.NewIOFailure(rerr)
			break
		}
	}

	return common.ConnResult{
		ID:      c.id,
		Remote:  c.label,
		Bytes:   c.bytes.Load(),
		Elapsed: time.Since(c.start),
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// closeWrite half-closes the write side for socket types that support it
func closeWrite(conn net.Conn) error {
	switch sock := conn.(type) {
	case *net.TCPConn:
		return sock.CloseWrite()
	case *net.UnixConn:
		return sock.CloseWrite()
	default:
		return errors.New("half-close not supported")
	}
}
