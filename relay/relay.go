// Package relay wires the decoding core to object stores.
//
// A Converter owns the fetch → decode → put path for one source/destination
// store pair. It is invoked either per object-created notification
// (HandleNotification) or over a whole key prefix (Sweep). The converter
// holds no cross-invocation state: the same key can be converted
// concurrently with other keys, and redelivered notifications simply
// overwrite the destination object with identical bytes.
package relay

import (
	"log/slog"

	"github.com/grokify/mogo/log/slogutil"

	"github.com/tsdbkit/tsdbjson/decode"
)

// Options configures a Converter.
type Options struct {
	// Logger is used for structured logging. Every log record carries the
	// source key for correlation. If nil, logging is disabled.
	Logger *slog.Logger

	// Decode options are passed through to the pipeline, e.g.
	// decode.WithoutRecords() to omit the structured-record probe.
	Decode []decode.Option
}

// logger returns the configured logger or a null logger if none is set.
func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slogutil.Null()
}
