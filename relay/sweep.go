package relay

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// SweepOptions configures a backfill sweep over a source prefix.
type SweepOptions struct {
	// Prefix limits the sweep to keys with this prefix.
	// Empty sweeps the whole source store.
	Prefix string

	// Concurrency is the number of parallel conversion workers.
	// Default: 4.
	Concurrency int

	// DryRun lists what would be converted without writing anything.
	DryRun bool

	// MaxErrors aborts the sweep after this many failed keys.
	// 0 means keep going and report all errors at the end.
	MaxErrors int

	// Retry configures per-key retry with exponential backoff.
	// The zero value disables retries.
	Retry RetryConfig
}

// KeyError records one failed key during a sweep.
type KeyError struct {
	Key string
	Err error
}

// SweepResult summarizes a sweep.
type SweepResult struct {
	// Listed is the number of source keys matched by the prefix.
	Listed int

	// Converted is the number of keys successfully converted.
	Converted int

	// Errors holds the keys that failed after retries.
	Errors []KeyError

	// DryRun mirrors SweepOptions.DryRun.
	DryRun bool

	// Duration is the wall-clock time of the sweep.
	Duration time.Duration
}

// Sweep lists the source store under opts.Prefix and converts every object,
// in parallel. It exists for backfill: notifications only cover objects
// written after the trigger was attached, a sweep covers the rest. Re-running
// a sweep is safe because destination writes are overwrites.
func (c *Converter) Sweep(ctx context.Context, opts SweepOptions) (*SweepResult, error) {
	start := time.Now()

	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	logger := c.logger
	logger.Info("starting sweep",
		slog.String("prefix", opts.Prefix),
		slog.Int("concurrency", opts.Concurrency),
		slog.Bool("dry_run", opts.DryRun),
	)

	keys, err := c.src.List(ctx, opts.Prefix)
	if err != nil {
		logger.Error("failed to list source keys", slog.String("prefix", opts.Prefix), slog.Any("error", err))
		return nil, err
	}

	result := &SweepResult{Listed: len(keys), DryRun: opts.DryRun}

	var converted atomic.Int64
	var errorsMu sync.Mutex

	sweepCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan string, len(keys))
	var wg sync.WaitGroup

	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range workCh {
				select {
				case <-sweepCtx.Done():
					return
				default:
				}

				if opts.DryRun {
					logger.Info("would convert", slog.String("source_key", key))
					converted.Add(1)
					continue
				}

				err := retryOperation(sweepCtx, opts.Retry, func() error {
					return c.Convert(sweepCtx, key)
				})
				if err != nil {
					errorsMu.Lock()
					result.Errors = append(result.Errors, KeyError{Key: key, Err: err})
					shouldStop := opts.MaxErrors > 0 && len(result.Errors) >= opts.MaxErrors
					errorsMu.Unlock()
					if shouldStop {
						cancel()
						return
					}
					continue
				}
				converted.Add(1)
			}
		}()
	}

	for _, key := range keys {
		workCh <- key
	}
	close(workCh)
	wg.Wait()

	result.Converted = int(converted.Load())
	result.Duration = time.Since(start)

	logger.Info("sweep complete",
		slog.Int("listed", result.Listed),
		slog.Int("converted", result.Converted),
		slog.Int("errors", len(result.Errors)),
		slog.Duration("duration", result.Duration),
	)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
