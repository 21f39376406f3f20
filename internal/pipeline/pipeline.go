// Package pipeline connects the parser (running on a dedicated goroutine)
// to a consumer (the aggregator/report builder running on the caller) via a
// bounded channel, preserving log order across the boundary.
package pipeline

import (
	"sync"

	"mlog/internal/event"
	"mlog/internal/parse"
)

// capacity is the channel buffer size. A few thousand lets the producer run
// well ahead of a consumer doing real aggregation work without unbounded
// memory growth.
const capacity = 4096

// Item is one value delivered across the channel: either an Event, or — on
// the final item only — a terminal error from the producer.
type Item struct {
	Event event.Event
	Err   error
}

// Handle is a running producer/consumer pair. Items is the channel the
// consumer ranges over; Cancel requests early termination.
type Handle struct {
	Items  <-chan Item
	cancel func()
}

// Cancel tells the producer to stop at its next send. Safe to
// call multiple times and safe to call after the producer has already
// finished on its own.
func (h *Handle) Cancel() {
	h.cancel()
}

// Run starts the parser on its own goroutine and returns a Handle streaming
// Items in log order. If reverse is true and limit > 0 the producer scans
// backward from the end of the file (see parse.ParseReverse); otherwise it
// scans forward from the start.
func Run(path string, sink parse.Sink, reverse bool, limit int) *Handle {
	out := make(chan Item, capacity)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() { once.Do(func() { close(done) }) }

	go func() {
		defer close(out)
		send := func(it Item) bool {
			select {
			case out <- it:
				return true
			case <-done:
				return false
			}
		}
		emit := func(e event.Event) bool { return send(Item{Event: e}) }

		var scanErr error
		if reverse && limit > 0 {
			scanErr = parse.ParseReverse(path, limit, sink, emit)
		} else {
			scanErr = parse.ParseForward(path, sink, emit)
		}
		if scanErr != nil {
			send(Item{Err: scanErr})
		}
	}()

	return &Handle{Items: out, cancel: cancel}
}
