package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tsdbkit/tsdbjson"
	"github.com/tsdbkit/tsdbjson/decode"
)

// Converter converts objects from a source store into JSON documents in a
// destination store. Safe for concurrent use.
type Converter struct {
	src      tsdbjson.Store
	dst      tsdbjson.Store
	pipeline *decode.Pipeline
	logger   *slog.Logger
}

// New creates a Converter over the given source and destination stores.
func New(src, dst tsdbjson.Store, opts Options) *Converter {
	return &Converter{
		src:      src,
		dst:      dst,
		pipeline: decode.NewPipeline(opts.Decode...),
		logger:   opts.logger(),
	}
}

// Pipeline returns the converter's decode pipeline.
func (c *Converter) Pipeline() *decode.Pipeline {
	return c.pipeline
}

// Convert fetches the object under key, decodes it, and writes the JSON
// document to the destination store under the derived key.
//
// Decoding itself cannot fail (the pipeline is total); the only errors
// Convert returns are I/O errors from the stores and encoding faults,
// which indicate a pipeline defect rather than an unexpected content
// shape. The destination write happens only after the full value is
// decoded and encoded, so a cancelled invocation never leaves a partial
// object behind.
func (c *Converter) Convert(ctx context.Context, key string) error {
	logger := c.logger.With(slog.String("source_key", key))

	raw, err := c.src.Fetch(ctx, key)
	if err != nil {
		logger.Error("fetch failed", slog.Any("error", err))
		return fmt.Errorf("fetching %s: %w", key, err)
	}

	out := c.pipeline.Process(key, raw)

	payload, err := json.Marshal(out.Value)
	if err != nil {
		// Can only happen on pathological decoded values (e.g. NaN
		// samples); surfaced, not swallowed.
		logger.Error("encoding decoded value failed", slog.Any("error", err))
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := c.dst.Put(ctx, out.Key, payload, tsdbjson.WithContentType(out.ContentType)); err != nil {
		logger.Error("put failed",
			slog.String("destination_key", out.Key),
			slog.Any("error", err),
		)
		return fmt.Errorf("writing %s: %w", out.Key, err)
	}

	logger.Info("converted",
		slog.String("destination_key", out.Key),
		slog.String("tag", string(out.Tag)),
		slog.Int("raw_bytes", len(raw)),
		slog.Int("json_bytes", len(payload)),
	)
	return nil
}
