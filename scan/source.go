// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// DemoPayload is the ticket the demo source emits by default
const DemoPayload = "ticket:1,owner:2"

// Source produces raw scan payloads. Run blocks, calling emit once per
// detected code, until ctx is done or the source is exhausted.
// A source may emit the same payload many times while a code stays in view.
type Source interface {
	Run(ctx context.Context, emit func(raw string)) error
}

// MaxPayloadBytes is the longest line ReaderSource accepts. Longer lines
// are dropped whole and reading carries on with the next line.
const MaxPayloadBytes = 4096

// ReaderSource reads newline-delimited payloads, as written by hand-held
// and camera readers that present themselves as keyboards or serial ports.
type ReaderSource struct {
	r io.Reader
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// Run returns nil at EOF
func (s *ReaderSource) Run(ctx context.Context, emit func(raw string)) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		br := bufio.NewReaderSize(s.r, MaxPayloadBytes)
		for {
			line, err := readLine(br)
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				errc <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			emit(line)
		}
	}
}

// readLine returns the next line without its terminator. Lines longer than
// MaxPayloadBytes are consumed and skipped. A final line without a newline
// is returned before io.EOF.
func readLine(br *bufio.Reader) (string, error) {
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", err
		}
		if !isPrefix {
			return string(chunk), nil
		}

		// The buffer filled before a newline: drain the rest of the line
		skipped := len(chunk)
		for isPrefix {
			chunk, isPrefix, err = br.ReadLine()
			skipped += len(chunk)
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return "", err
			}
		}
		slog.Warn("dropping oversized scan line", "bytes", skipped, "max", MaxPayloadBytes)
		if err != nil {
			return "", err
		}
	}
}

// DemoSource emits a fixed payload each time Trigger is called. It stands in
// for a camera where none is available.
type DemoSource struct {
	payload  string
	triggers chan string
}

func NewDemoSource(payload string) *DemoSource {
	if payload == "" {
		payload = DemoPayload
	}
	return &DemoSource{payload: payload, triggers: make(chan string, 1)}
}

// Trigger queues one scan of the demo payload. It reports false when a
// previous trigger has not been consumed yet.
func (s *DemoSource) Trigger() bool {
	select {
	case s.triggers <- s.payload:
		return true
	default:
		return false
	}
}

func (s *DemoSource) Run(ctx context.Context, emit func(raw string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw := <-s.triggers:
			emit(raw)
		}
	}
}

// Pump feeds every payload from src into the gate until src returns.
// Context cancellation is a normal stop and returns nil.
func Pump(ctx context.Context, g *Gate, src Source) error {
	err := src.Run(ctx, func(raw string) {
		if !g.Scan(raw) {
			slog.Debug("scan dropped", "payload", raw, "state", g.Status().State)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
