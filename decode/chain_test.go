package decode

import (
	"encoding/base64"
	"reflect"
	"testing"
)

func runChain(t *testing.T, b []byte) Result {
	t.Helper()
	return NewChain().Run(Input{Raw: b, Bytes: b})
}

func TestChainOrder(t *testing.T) {
	want := []Tag{TagRecord, TagIndex, TagSeries, TagJSON, TagText, TagBase64}
	if got := NewChain().Tags(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestChainWithoutRecords(t *testing.T) {
	want := []Tag{TagIndex, TagSeries, TagJSON, TagText, TagBase64}
	if got := NewChain(WithoutRecords()).Tags(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestChainIndex(t *testing.T) {
	res := runChain(t, []byte("index\nfoo\tbar\nbaz\tqux"))

	if res.Tag != TagIndex {
		t.Fatalf("Tag = %q, want %q", res.Tag, TagIndex)
	}
	want := map[string]any{"foo": "bar", "baz": "qux"}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %v, want %v", res.Value, want)
	}
}

func TestChainIndexDuplicateKeys(t *testing.T) {
	res := runChain(t, []byte("index\nk\tfirst\nk\tsecond"))

	want := map[string]any{"k": "second"}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %v, want %v (last write wins)", res.Value, want)
	}
}

func TestChainIndexExtraFields(t *testing.T) {
	// Only the first two tab-separated fields of a row are used.
	res := runChain(t, []byte("index\na\tb\tc"))

	want := map[string]any{"a": "b"}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %v, want %v", res.Value, want)
	}
}

func TestChainIndexMarkerWithoutRows(t *testing.T) {
	// Marker present but no tab-delimited rows: still a match, with an
	// empty table.
	res := runChain(t, []byte("index but no tabs here"))

	if res.Tag != TagIndex {
		t.Fatalf("Tag = %q, want %q", res.Tag, TagIndex)
	}
	if !reflect.DeepEqual(res.Value, map[string]any{}) {
		t.Errorf("Value = %v, want empty table", res.Value)
	}
}

func TestChainSeries(t *testing.T) {
	res := runChain(t, []byte("series\nline1\nline2"))

	if res.Tag != TagSeries {
		t.Fatalf("Tag = %q, want %q", res.Tag, TagSeries)
	}
	// The marker line is a data row too: no line is special-cased away
	// from the split.
	want := map[string]any{"series": []any{"series", "line1", "line2"}}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %v, want %v", res.Value, want)
	}
}

func TestChainSeriesDropsEmptyLines(t *testing.T) {
	res := runChain(t, []byte("series\n\nline1\n\n"))

	want := map[string]any{"series": []any{"series", "line1"}}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %v, want %v", res.Value, want)
	}
}

func TestChainMarkerBeyondWindow(t *testing.T) {
	// The marker only counts within the first 20 bytes.
	b := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaa index")
	res := runChain(t, b)

	if res.Tag != TagText {
		t.Errorf("Tag = %q, want %q", res.Tag, TagText)
	}
}

func TestChainJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"object", `{"a":1,"b":"x"}`, map[string]any{"a": float64(1), "b": "x"}},
		{"array", `[1,2,3]`, []any{float64(1), float64(2), float64(3)}},
		{"string", `"hello"`, "hello"},
		{"number", `42`, float64(42)},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runChain(t, []byte(tt.input))
			if res.Tag != TagJSON {
				t.Fatalf("Tag = %q, want %q", res.Tag, TagJSON)
			}
			if !reflect.DeepEqual(res.Value, tt.want) {
				t.Errorf("Value = %v, want %v", res.Value, tt.want)
			}
		})
	}
}

func TestChainText(t *testing.T) {
	res := runChain(t, []byte("just some words"))

	if res.Tag != TagText {
		t.Fatalf("Tag = %q, want %q", res.Tag, TagText)
	}
	want := map[string]any{"content": "just some words"}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %v, want %v", res.Value, want)
	}
}

func TestChainBinaryFallback(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0x80, 0x81, 0x00, 0xc3, 0x28, 0xa0, 0xa1, 0xf5, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

	res := runChain(t, raw)
	if res.Tag != TagBase64 {
		t.Fatalf("Tag = %q, want %q", res.Tag, TagBase64)
	}

	m, ok := res.Value.(map[string]any)
	if !ok {
		t.Fatalf("Value is %T, want map", res.Value)
	}
	if m["encoding"] != "base64" || m["format"] != "binary" {
		t.Errorf("wrapper = %v, want encoding=base64 format=binary", m)
	}

	decoded, err := base64.StdEncoding.DecodeString(m["content"].(string))
	if err != nil {
		t.Fatalf("content is not valid base64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Errorf("content decodes to %v, want %v", decoded, raw)
	}
}

func TestChainEmptyInput(t *testing.T) {
	res := runChain(t, []byte{})

	if res.Tag != TagBase64 {
		t.Fatalf("Tag = %q, want %q (empty buffer is opaque binary)", res.Tag, TagBase64)
	}
	m := res.Value.(map[string]any)
	if m["content"] != "" {
		t.Errorf("content = %q, want empty base64", m["content"])
	}
}

func TestChainFallbackUsesOriginalBytes(t *testing.T) {
	// When decompression succeeded but no interpreter matches the logical
	// bytes, the fallback must encode the original buffer, not the
	// decompressed view.
	raw := []byte{0x01, 0x02}
	logical := []byte{0xff, 0xfe} // invalid UTF-8, not JSON

	res := NewChain().Run(Input{Raw: raw, Bytes: logical})
	if res.Tag != TagBase64 {
		t.Fatalf("Tag = %q, want %q", res.Tag, TagBase64)
	}
	m := res.Value.(map[string]any)
	if got := m["content"]; got != base64.StdEncoding.EncodeToString(raw) {
		t.Errorf("content = %q, want base64 of the original bytes", got)
	}
}
