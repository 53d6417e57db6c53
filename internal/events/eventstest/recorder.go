// Package eventstest provides an in-memory events.Publisher for tests.
package eventstest

import (
	"context"
	"sync"
)

type Record struct {
	Topic string
	Key   string
	Event any
}

type Recorder struct {
	mu      sync.Mutex
	records []Record
	Err     error
}

func (r *Recorder) Publish(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.records = append(r.records, Record{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Topic returns the events published to topic, in order.
func (r *Recorder) Topic(topic string) []any {
	var out []any
	for _, rec := range r.Records() {
		if rec.Topic == topic {
			out = append(out, rec.Event)
		}
	}
	return out
}
