package decode

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
)

// Decompress normalizes a raw buffer into its logical form.
//
// It probes gzip first (self-describing via its magic header, so false
// positives are unlikely), then the snappy block format, and finally falls
// back to returning the input unchanged. A codec that rejects the buffer
// is "not this codec", never an error: Decompress always returns a buffer.
func Decompress(b []byte) []byte {
	if out, err := gunzip(b); err == nil {
		return out
	}
	if out, err := snappy.Decode(nil, b); err == nil {
		return out
	}
	return b
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer func() { _ = zr.Close() }()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	return out, nil
}
