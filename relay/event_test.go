package relay

import (
	"context"
	"reflect"
	"testing"
)

const sampleNotification = `{
  "Records": [
    {
      "eventName": "ObjectCreated:Put",
      "s3": {
        "bucket": {"name": "tsdb-raw"},
        "object": {"key": "blocks/chunk+001.tsdb.gz"}
      }
    },
    {
      "eventName": "ObjectRemoved:Delete",
      "s3": {
        "bucket": {"name": "tsdb-raw"},
        "object": {"key": "old.tsdb"}
      }
    }
  ]
}`

func TestParseEvents(t *testing.T) {
	events, err := ParseEvents([]byte(sampleNotification))
	if err != nil {
		t.Fatalf("ParseEvents failed: %v", err)
	}

	want := []Event{
		{Name: "ObjectCreated:Put", Bucket: "tsdb-raw", Key: "blocks/chunk 001.tsdb.gz"},
		{Name: "ObjectRemoved:Delete", Bucket: "tsdb-raw", Key: "old.tsdb"},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}

	if !events[0].IsObjectCreated() {
		t.Errorf("IsObjectCreated() = false for %q", events[0].Name)
	}
	if events[1].IsObjectCreated() {
		t.Errorf("IsObjectCreated() = true for %q", events[1].Name)
	}
}

func TestParseEventsBadDocument(t *testing.T) {
	if _, err := ParseEvents([]byte("not json")); err == nil {
		t.Fatal("ParseEvents accepted a non-JSON document")
	}
}

func TestHandleNotification(t *testing.T) {
	conv, src, dst := newTestConverter(t)
	ctx := context.Background()

	// Only the created object should be converted; the removal event is
	// skipped, and a removal of a key that never existed must not fail
	// the notification.
	_ = src.Put(ctx, "blocks/chunk 001.tsdb.gz", gzipCompress(t, []byte(`{"ok":true}`)))

	if err := conv.HandleNotification(ctx, []byte(sampleNotification)); err != nil {
		t.Fatalf("HandleNotification failed: %v", err)
	}

	got := fetchJSON(t, dst, "blocks/chunk 001")
	want := map[string]any{"ok": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("destination = %v, want %v", got, want)
	}

	keys, _ := dst.List(ctx, "")
	if len(keys) != 1 {
		t.Errorf("destination keys = %v, want exactly one", keys)
	}
}

func TestHandleEventSkipsNonCreated(t *testing.T) {
	conv, _, dst := newTestConverter(t)
	ctx := context.Background()

	err := conv.HandleEvent(ctx, Event{Name: "ObjectRemoved:Delete", Key: "gone.tsdb"})
	if err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	keys, _ := dst.List(ctx, "")
	if len(keys) != 0 {
		t.Errorf("destination not empty: %v", keys)
	}
}
