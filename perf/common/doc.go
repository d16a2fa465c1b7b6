// Package common contains the core data structures and utilities shared
// across the measurement system: configuration structs for the server and
// client, the unit formatting used for all rate output, the failure
// taxonomy, measurement/result types and the logging factory.
//
// Key Components:
//
//   - ServerConfig / ClientConfig: validated parameters produced by the CLI
//     layer and consumed by the server and client cores.
//
//   - Unit: the output unit (B, KB, MB) with decimal scaling (1 KB = 1000 B)
//     and rate formatting/parsing helpers.
//
//   - Failure / FailureKind: the error taxonomy (bind, connect, io) used to
//     keep a failed connection distinguishable from a zero-throughput one.
//
//   - Measurement / ConnResult / SessionResult: observation and summary
//     types flowing from the transfer loops to the reporter.
package common
