package relay

import (
	"context"
	"reflect"
	"sort"
	"testing"
)

func TestSweep(t *testing.T) {
	conv, src, dst := newTestConverter(t)
	ctx := context.Background()

	_ = src.Put(ctx, "blocks/a.tsdb", []byte(`{"n":1}`))
	_ = src.Put(ctx, "blocks/b.tsdb.gz", gzipCompress(t, []byte(`{"n":2}`)))
	_ = src.Put(ctx, "blocks/c.tsdb", []byte("series\ns1\ns2"))

	result, err := conv.Sweep(ctx, SweepOptions{Prefix: "blocks/", Concurrency: 2})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if result.Listed != 3 || result.Converted != 3 {
		t.Errorf("result = %+v, want 3 listed and converted", result)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v, want none", result.Errors)
	}

	keys, _ := dst.List(ctx, "")
	sort.Strings(keys)
	want := []string{"blocks/a", "blocks/b", "blocks/c"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("destination keys = %v, want %v", keys, want)
	}
}

func TestSweepPrefixFilter(t *testing.T) {
	conv, src, dst := newTestConverter(t)
	ctx := context.Background()

	_ = src.Put(ctx, "blocks/a.tsdb", []byte(`{}`))
	_ = src.Put(ctx, "other/b.tsdb", []byte(`{}`))

	result, err := conv.Sweep(ctx, SweepOptions{Prefix: "blocks/"})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if result.Listed != 1 {
		t.Errorf("Listed = %d, want 1", result.Listed)
	}

	keys, _ := dst.List(ctx, "")
	if !reflect.DeepEqual(keys, []string{"blocks/a"}) {
		t.Errorf("destination keys = %v, want [blocks/a]", keys)
	}
}

func TestSweepDryRun(t *testing.T) {
	conv, src, dst := newTestConverter(t)
	ctx := context.Background()

	_ = src.Put(ctx, "a.tsdb", []byte(`{}`))
	_ = src.Put(ctx, "b.tsdb", []byte(`{}`))

	result, err := conv.Sweep(ctx, SweepOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if !result.DryRun || result.Converted != 2 {
		t.Errorf("result = %+v, want dry-run with 2 would-convert", result)
	}

	keys, _ := dst.List(ctx, "")
	if len(keys) != 0 {
		t.Errorf("dry run wrote to destination: %v", keys)
	}
}

func TestSweepEmptySource(t *testing.T) {
	conv, _, _ := newTestConverter(t)

	result, err := conv.Sweep(context.Background(), SweepOptions{})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if result.Listed != 0 || result.Converted != 0 {
		t.Errorf("result = %+v, want empty sweep", result)
	}
}
