// Package tcp implements the transport connector interfaces for TCP
// sockets, the default transport. Accepted and dialed connections are tuned
// according to the configured socket options (NoDelay, buffer sizes,
// keep-alive, linger).
package tcp
