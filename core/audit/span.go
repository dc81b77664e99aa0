// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// Span times one unit of work: a request served to a user, a render, or a
// store operation.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Kind       SpanKind
	RequestID  string
	Name       string // route, generator name or store key
	Method     string
	StatusCode int
	Error      error
	Body       []byte // Body is not logged as is; only its size and, for renders, the dump file

	dumpFilename string
}

// SpanKind describes what a span measures.
type SpanKind string

const (
	ToUser  SpanKind = "user"
	Render  SpanKind = "render"
	ToStore SpanKind = "store"

	dumpFilePermissions = 0o600
)

var (
	// DumpRenders indicates whether render outputs are written to DumpDirectory.
	DumpRenders bool

	// DumpDirectory is where render outputs are written.
	DumpDirectory string
)

// ServerTimingName must obey the Server-Timing metric name syntax, hence the
// unpadded base64 of the free-form name.
func (span Span) ServerTimingName() string {
	return string(span.Kind) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.Name))
}

// Begin starts the span, attaching a runtime/trace task and, if ctx carries
// server timing, a Server-Timing metric.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, string(span.Kind))
	if timing := servertiming.FromContext(ctx); timing != nil {
		span.metric = timing.NewMetric(span.ServerTimingName())
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops the clock. Calling it more than once has no effect.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()

	if span.metric != nil {
		span.metric.Duration = span.duration
	}

	span.task = nil
}

// Duration is the measured time, valid after End.
func (span Span) Duration() time.Duration {
	return span.duration
}

// Log writes the span, dumping render output first if enabled. Requests
// served to users log at info level, everything else at debug.
func (span Span) Log() {
	if span.Kind == Render && DumpRenders && len(span.Body) > 0 && span.RequestID != "" {
		filename := filepath.Join(DumpDirectory, span.RequestID+".html")

		if err := os.WriteFile(filename, span.Body, dumpFilePermissions); err != nil {
			log.Err(err).
				Str("request_id", span.RequestID).
				Msg("Failed to dump render output")
		} else {
			span.dumpFilename = filename
		}
	}

	event := log.Debug()
	if span.Kind == ToUser {
		event = log.Info()
	}

	event.Str("sys", string(span.Kind))
	event.Str("name", span.Name)

	if span.Method != "" {
		event.Str("method", span.Method)
	}

	if span.StatusCode != 0 {
		event.Int("status_code", span.StatusCode)
	}

	event.Str("len", humanizeSize(len(span.Body)))
	event.Dur("dur", span.duration)
	event.Str("request_id", span.RequestID)

	if span.dumpFilename != "" {
		event.Str("dump_filename", span.dumpFilename)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
)

func humanizeSize(x int) string {
	switch {
	case x < bytesInKB:
		return strconv.Itoa(x)
	case x < bytesInMB:
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	default:
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}
}
