// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/scanstation/models"
)

// Sink receives feedback for every admitted scan. Notify is called from the
// gate's validation goroutine and must not block for long.
type Sink interface {
	Notify(fb models.Feedback)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(fb models.Feedback)

func (f SinkFunc) Notify(fb models.Feedback) { f(fb) }

// MultiSink fans feedback out to several sinks in order
type MultiSink []Sink

func (m MultiSink) Notify(fb models.Feedback) {
	for _, s := range m {
		if s != nil {
			s.Notify(fb)
		}
	}
}

// LogSink writes one structured log line per feedback event
type LogSink struct{}

func (LogSink) Notify(fb models.Feedback) {
	attrs := []any{"kind", fb.Kind, "payload", fb.Payload}
	if fb.Identity != nil {
		attrs = append(attrs, "ticket_id", fb.Identity.TicketID, "owner_id", fb.Identity.OwnerID)
	}

	switch fb.Kind {
	case models.KindSuccess:
		slog.Info("ticket validated", attrs...)
	case models.KindFailure:
		slog.Warn("ticket validation failed", append(attrs, "reason", fb.Reason, "message", fb.Message)...)
	default:
		slog.Warn("ticket payload rejected", append(attrs, "message", fb.Message)...)
	}
}

// WriterSink prints operator-facing lines, e.g. to a terminal
type WriterSink struct {
	mu       sync.Mutex
	w        io.Writer
	admitted int64
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Notify(fb models.Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch fb.Kind {
	case models.KindSuccess:
		s.admitted++
		fmt.Fprintf(s.w, "[OK]    %s (%s entry) - acknowledge to continue\n",
			fb.Message, humanize.Ordinal(int(s.admitted)))
	case models.KindFailure:
		fmt.Fprintf(s.w, "[ERROR] %s\n", fb.Message)
	default:
		fmt.Fprintf(s.w, "[ERROR] %s (%q)\n", fb.Message, fb.Payload)
	}
}
