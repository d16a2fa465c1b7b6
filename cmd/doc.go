// Package cmd implements the command-line interface for simpleperf. It
// provides a hierarchical command structure for running the measurement
// server and driving it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Command for starting and configuring the measurement server
//   - client: Command for running a measurement against a server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See simpleperf -help for a list of all commands.
package cmd
