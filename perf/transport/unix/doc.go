// Package unix implements the transport connector interfaces for Unix
// domain sockets, useful for measuring local IPC throughput without the
// TCP stack.
package unix
