// Package log provides structured protocol logging for Qubi endpoints.
//
// This package defines the Logger interface and Event type for capturing
// protocol-level events: datagrams in and out, command dispatch, and parse
// failures. It is separate from operational logging (slog) - protocol
// capture provides a machine-readable event trace for debugging robots
// whose modules only speak UDP.
//
// # Basic Usage
//
// Endpoints accept a Logger in their configuration:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/qubi/arm1.qlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with integer keys (.qlog extension).
// ReadEvents and Reader recover events from a capture file.
package log
