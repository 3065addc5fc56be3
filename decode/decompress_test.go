package decode

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
)

func gzipCompress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}
	return buf.Bytes()
}

func TestDecompressGzip(t *testing.T) {
	plain := []byte(`{"metric":"cpu","value":1.5}`)

	got := Decompress(gzipCompress(t, plain))
	if !bytes.Equal(got, plain) {
		t.Errorf("Decompress(gzip) = %q, want %q", got, plain)
	}
}

func TestDecompressSnappy(t *testing.T) {
	plain := []byte("series\nline1\nline2")

	got := Decompress(snappy.Encode(nil, plain))
	if !bytes.Equal(got, plain) {
		t.Errorf("Decompress(snappy) = %q, want %q", got, plain)
	}
}

func TestDecompressIdentity(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", []byte{}},
		{"plain text", []byte("not compressed at all")},
		{"json", []byte(`{"a":1}`)},
		{"garbage", []byte{0xff, 0xfe, 0xfd, 0xfc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decompress(tt.input)
			if !bytes.Equal(got, tt.input) {
				t.Errorf("Decompress(%q) = %q, want input unchanged", tt.input, got)
			}
		})
	}
}

func TestDecompressGzipBeforeSnappy(t *testing.T) {
	// A gzip buffer must be decoded as gzip even though the snappy probe
	// runs later; the magic header gives gzip priority.
	plain := []byte("payload")
	compressed := gzipCompress(t, plain)

	if got := Decompress(compressed); !bytes.Equal(got, plain) {
		t.Errorf("Decompress = %q, want %q", got, plain)
	}
}
