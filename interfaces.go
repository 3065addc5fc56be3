// Package tsdbjson converts opaque time-series-database storage artifacts
// into JSON documents.
//
// The repository is split into the decoding core and its collaborators.
// The core (package decode) takes an object key plus a raw byte buffer and
// always produces a JSON-compatible value: it decompresses the buffer on a
// best-effort basis, runs an ordered chain of content interpreters over it,
// and falls back to a lossless base64 wrapper when nothing else matches.
// Collaborators implement the Store interface below to supply source bytes
// and persist decoded output.
//
// Basic usage:
//
//	src, _ := s3.New(s3.Config{Bucket: "tsdb-raw", Region: "us-east-1"})
//	dst, _ := s3.New(s3.Config{Bucket: "tsdb-json", Region: "us-east-1"})
//	conv := relay.New(src, dst, relay.Options{})
//	err := conv.Convert(ctx, "blocks/chunk-001.tsdb.gz")
package tsdbjson

import "context"

// Store is a key-addressed object store (S3, local directory, SFTP,
// in-memory, etc.). Implementations handle raw byte transport; decoding
// never happens at this layer.
//
// Stores are safe for concurrent use by multiple goroutines. All methods
// accept a context.Context for cancellation and timeouts.
type Store interface {
	// Fetch reads the full object stored under key.
	// Returns ErrNotFound if the key does not exist.
	Fetch(ctx context.Context, key string) ([]byte, error)

	// Put writes data under key, replacing any existing object (overwrite
	// semantics; a repeated Put with identical data is a no-op for readers).
	Put(ctx context.Context, key string, data []byte, opts ...PutOption) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes a key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// List lists keys with the given prefix.
	// Returns an empty slice if no keys match.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the store.
	// After Close, all other methods return ErrStoreClosed.
	Close() error
}
