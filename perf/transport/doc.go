// Package transport defines the connector interfaces used by the server and
// client cores to obtain raw byte-stream connections. It provides a common
// contract so the measurement loops stay independent of the socket family.
//
// The payload on these connections is opaque filler - there is no framing
// or application protocol; a connector's only job is to hand over a tuned
// net.Conn.
//
// Key Components:
//
//   - IListenerConnector: creates a listener and tunes accepted connections.
//
//   - IDialerConnector: dials the target and tunes the resulting connection.
//
// Implementations live in the tcp and unix subpackages.
package transport
