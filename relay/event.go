package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Event is one object-store notification record.
type Event struct {
	// Name is the notification event name, e.g. "ObjectCreated:Put".
	Name string

	// Bucket is the source container the event refers to.
	Bucket string

	// Key is the object key, URL-decoded.
	Key string
}

// IsObjectCreated reports whether the event announces a newly written object.
func (e Event) IsObjectCreated() bool {
	return strings.HasPrefix(e.Name, "ObjectCreated:")
}

// notification mirrors the S3 event notification document shape.
type notification struct {
	Records []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// ParseEvents parses an object-store notification document into events.
// Object keys arrive URL-encoded (spaces as "+"); they are decoded here so
// downstream code only ever sees plain keys.
func ParseEvents(data []byte) ([]Event, error) {
	var n notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parsing notification: %w", err)
	}

	events := make([]Event, 0, len(n.Records))
	for _, r := range n.Records {
		key, err := url.QueryUnescape(r.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("decoding object key %q: %w", r.S3.Object.Key, err)
		}
		events = append(events, Event{
			Name:   r.EventName,
			Bucket: r.S3.Bucket.Name,
			Key:    key,
		})
	}
	return events, nil
}

// HandleEvent converts the object named by a single event. Events that are
// not object-created notifications are skipped.
func (c *Converter) HandleEvent(ctx context.Context, ev Event) error {
	if !ev.IsObjectCreated() {
		c.logger.Debug("skipping event",
			slog.String("event", ev.Name),
			slog.String("source_key", ev.Key),
		)
		return nil
	}
	return c.Convert(ctx, ev.Key)
}

// HandleNotification parses a notification document and converts every
// object-created record in it. The first failing record stops processing;
// redelivery of the whole notification is safe because destination writes
// are overwrites.
func (c *Converter) HandleNotification(ctx context.Context, data []byte) error {
	events, err := ParseEvents(data)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := c.HandleEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
