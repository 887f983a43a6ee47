// Package tracing provides one span per lifecycle phase per plugin,
// console-exported. Trimmed from the teacher's distributed-tracing
// stack (batching, HTTP middleware, DB/cache/HTTP helpers) down to the
// Tracer/Span/ConsoleExporter core, since this module has no outbound
// HTTP or DB calls of its own to trace.
package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Span represents a single traced operation.
type Span struct {
	TraceID    string
	SpanID     string
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	Attributes map[string]any
	Status     SpanStatus
}

// SpanStatus is the outcome recorded when a span ends.
type SpanStatus struct {
	Code    SpanStatusCode
	Message string
}

type SpanStatusCode int

const (
	StatusCodeUnset SpanStatusCode = iota
	StatusCodeOK
	StatusCodeError
)

type spanKey struct{}

// Tracer starts and ends spans, handing each completed span to a
// SpanProcessor.
type Tracer struct {
	name      string
	processor SpanProcessor
}

// NewTracer creates a Tracer that exports to processor. A nil
// processor defaults to a SimpleSpanProcessor over a ConsoleExporter.
func NewTracer(name string, processor SpanProcessor) *Tracer {
	if processor == nil {
		processor = NewSimpleSpanProcessor(NewConsoleExporter())
	}
	return &Tracer{name: name, processor: processor}
}

// Start begins a span, deriving a fresh trace ID unless the context
// already carries a parent span (whose trace ID is reused).
func (t *Tracer) Start(ctx context.Context, name string) (context.Context, *Span) {
	traceID := uuid.NewString()
	if parent := SpanFromContext(ctx); parent != nil {
		traceID = parent.TraceID
	}

	span := &Span{
		TraceID:    traceID,
		SpanID:     uuid.NewString(),
		Name:       name,
		StartTime:  time.Now(),
		Attributes: make(map[string]any),
		Status:     SpanStatus{Code: StatusCodeUnset},
	}
	return context.WithValue(ctx, spanKey{}, span), span
}

// End closes span, recording err as its status, and hands it to the processor.
func (t *Tracer) End(span *Span, err error) {
	if span == nil {
		return
	}
	span.EndTime = time.Now()
	if err != nil {
		span.Status = SpanStatus{Code: StatusCodeError, Message: err.Error()}
	} else {
		span.Status = SpanStatus{Code: StatusCodeOK}
	}
	t.processor.OnEnd(span)
}

// SetAttributes merges attrs onto span.
func (t *Tracer) SetAttributes(span *Span, attrs map[string]any) {
	if span == nil {
		return
	}
	for k, v := range attrs {
		span.Attributes[k] = v
	}
}

// Shutdown flushes and closes the tracer's processor.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.processor.Shutdown(ctx)
}

// SpanFromContext retrieves the span started by the most recent Start
// call on ctx, or nil.
func SpanFromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanKey{}).(*Span)
	return span
}

// SpanProcessor receives spans as they end.
type SpanProcessor interface {
	OnEnd(span *Span)
	Shutdown(ctx context.Context) error
}

// SimpleSpanProcessor exports every span immediately, synchronously.
type SimpleSpanProcessor struct {
	exporter SpanExporter
}

// NewSimpleSpanProcessor creates a SimpleSpanProcessor over exporter.
func NewSimpleSpanProcessor(exporter SpanExporter) *SimpleSpanProcessor {
	return &SimpleSpanProcessor{exporter: exporter}
}

func (s *SimpleSpanProcessor) OnEnd(span *Span) {
	if s.exporter != nil {
		s.exporter.Export(span)
	}
}

func (s *SimpleSpanProcessor) Shutdown(ctx context.Context) error {
	if s.exporter != nil {
		return s.exporter.Shutdown(ctx)
	}
	return nil
}

// SpanExporter sends completed spans somewhere.
type SpanExporter interface {
	Export(span *Span) error
	Shutdown(ctx context.Context) error
}

// ConsoleExporter writes one line per span to stdout.
type ConsoleExporter struct{}

func NewConsoleExporter() *ConsoleExporter { return &ConsoleExporter{} }

func (c *ConsoleExporter) Export(span *Span) error {
	fmt.Printf("[trace] %s trace=%s span=%s duration=%v status=%d\n",
		span.Name, span.TraceID, span.SpanID, span.EndTime.Sub(span.StartTime), span.Status.Code)
	return nil
}

func (c *ConsoleExporter) Shutdown(ctx context.Context) error { return nil }
