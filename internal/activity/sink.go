// Package activity collects suspicious-activity events for later review.
// Recording is advisory: it never blocks a request and never fails one.
package activity

import (
	"log/slog"
	"sync"
	"time"
)

// Kind tags the class of anomalous request that was observed.
type Kind string

const (
	KindInvalidQuantity Kind = "INVALID_QUANTITY"
	KindInvalidPrice    Kind = "INVALID_PRICE"
	KindRapidTrading    Kind = "RAPID_TRADING"
	KindFailedLogin     Kind = "FAILED_LOGIN"
	KindRateLimit       Kind = "RATE_LIMIT"
)

// Event is a single recorded signal.
type Event struct {
	Identifier string `json:"identifier"` // user id or username the event is attributed to
	Kind       Kind   `json:"kind"`
	Detail     string `json:"detail"`
	Timestamp  int64  `json:"timestamp"` // unix millis
}

// Sink holds a bounded ring of recent events. Old events are
// overwritten once capacity is reached; the sink is for review,
// not durable audit.
type Sink struct {
	mu     sync.Mutex
	events []Event
	next   int
	filled bool
	logger *slog.Logger
	now    func() time.Time
}

const defaultCapacity = 1024

func NewSink(logger *slog.Logger) *Sink {
	return &Sink{
		events: make([]Event, defaultCapacity),
		logger: logger,
		now:    time.Now,
	}
}

// Record stores an event and logs it. Fire-and-forget by contract.
func (s *Sink) Record(identifier string, kind Kind, detail string) {
	ev := Event{
		Identifier: identifier,
		Kind:       kind,
		Detail:     detail,
		Timestamp:  s.now().UnixMilli(),
	}

	s.mu.Lock()
	s.events[s.next] = ev
	s.next = (s.next + 1) % len(s.events)
	if s.next == 0 {
		s.filled = true
	}
	s.mu.Unlock()

	s.logger.Warn("suspicious activity",
		slog.String("identifier", identifier),
		slog.String("kind", string(kind)),
		slog.String("detail", detail),
	)
}

// Recent returns up to n events, newest first.
func (s *Sink) Recent(n int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.next
	if s.filled {
		size = len(s.events)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + len(s.events)) % len(s.events)
		out = append(out, s.events[idx])
	}
	return out
}
