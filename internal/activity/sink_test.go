package activity

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func newTestSink() *Sink {
	return NewSink(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecordAndRecent(t *testing.T) {
	sink := newTestSink()

	sink.Record("u1", KindInvalidQuantity, "quantity=-1")
	sink.Record("u1", KindInvalidPrice, "price=0")
	sink.Record("u2", KindRapidTrading, "6 trades")

	events := sink.Recent(10)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Kind != KindRapidTrading || events[0].Identifier != "u2" {
		t.Errorf("unexpected newest event: %+v", events[0])
	}
	if events[2].Kind != KindInvalidQuantity {
		t.Errorf("unexpected oldest event: %+v", events[2])
	}
}

func TestRecentLimit(t *testing.T) {
	sink := newTestSink()
	for i := 0; i < 5; i++ {
		sink.Record("u1", KindFailedLogin, fmt.Sprintf("attempt %d", i))
	}

	events := sink.Recent(2)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Detail != "attempt 4" {
		t.Errorf("expected newest event first, got %+v", events[0])
	}
}

func TestRingWraps(t *testing.T) {
	sink := newTestSink()
	total := defaultCapacity + 10
	for i := 0; i < total; i++ {
		sink.Record("u1", KindRateLimit, fmt.Sprintf("event %d", i))
	}

	events := sink.Recent(0)
	if len(events) != defaultCapacity {
		t.Fatalf("expected %d events after wrap, got %d", defaultCapacity, len(events))
	}
	if events[0].Detail != fmt.Sprintf("event %d", total-1) {
		t.Errorf("newest event wrong after wrap: %+v", events[0])
	}
}
