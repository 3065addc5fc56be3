package tsdbjson_test

import (
	"context"
	"fmt"

	"github.com/tsdbkit/tsdbjson"
	"github.com/tsdbkit/tsdbjson/relay"

	_ "github.com/tsdbkit/tsdbjson/store/memory"
)

func Example() {
	ctx := context.Background()

	src, _ := tsdbjson.Open("memory", nil)
	dst, _ := tsdbjson.Open("memory", nil)
	defer func() { _ = src.Close() }()
	defer func() { _ = dst.Close() }()

	_ = src.Put(ctx, "meta.tsdb", []byte(`{"version":1}`))

	conv := relay.New(src, dst, relay.Options{})
	if err := conv.Convert(ctx, "meta.tsdb"); err != nil {
		fmt.Println("convert failed:", err)
		return
	}

	out, _ := dst.Fetch(ctx, "meta")
	fmt.Println(string(out))
	// Output: {"version":1}
}
