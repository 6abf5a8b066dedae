package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TraceEvent represents different types of events in graph execution.
type TraceEvent string

const (
	// TraceEventGraphStart indicates the start of graph execution
	TraceEventGraphStart TraceEvent = "graph_start"

	// TraceEventGraphEnd indicates the end of graph execution
	TraceEventGraphEnd TraceEvent = "graph_end"

	// TraceEventNodeStart indicates the start of node execution
	TraceEventNodeStart TraceEvent = "node_start"

	// TraceEventNodeEnd indicates the end of node execution
	TraceEventNodeEnd TraceEvent = "node_end"
)

// TraceSpan represents a span of execution with timing metadata.
type TraceSpan struct {
	// ID is a unique identifier for this span
	ID string

	// Event indicates the type of event this span represents
	Event TraceEvent

	// NodeName is the name of the node being executed ("graph" for the root span)
	NodeName string

	// StartTime is when this span began
	StartTime time.Time

	// EndTime is when this span completed (zero for ongoing spans)
	EndTime time.Time

	// Duration is the total time taken (calculated when span ends)
	Duration time.Duration

	// Err contains any error that occurred during execution
	Err error
}

// TraceHook defines the interface for trace event handlers.
type TraceHook interface {
	// OnEvent is called when a trace event occurs
	OnEvent(ctx context.Context, span *TraceSpan)
}

// TraceHookFunc is a function adapter for TraceHook.
type TraceHookFunc func(ctx context.Context, span *TraceSpan)

// OnEvent implements the TraceHook interface.
func (f TraceHookFunc) OnEvent(ctx context.Context, span *TraceSpan) {
	f(ctx, span)
}

// Tracer manages trace collection and hooks. Hooks must be registered before
// the tracer is attached to a Runnable.
type Tracer struct {
	hooks []TraceHook
}

// NewTracer creates a new tracer instance.
func NewTracer() *Tracer {
	return &Tracer{}
}

// AddHook registers a new trace hook.
func (t *Tracer) AddHook(hook TraceHook) {
	t.hooks = append(t.hooks, hook)
}

// StartSpan begins a new span and notifies registered hooks.
func (t *Tracer) StartSpan(ctx context.Context, event TraceEvent, nodeName string) *TraceSpan {
	span := &TraceSpan{
		ID:        uuid.NewString(),
		Event:     event,
		NodeName:  nodeName,
		StartTime: time.Now(),
	}
	for _, hook := range t.hooks {
		hook.OnEvent(ctx, span)
	}
	return span
}

// EndSpan completes a span and notifies registered hooks with the end event.
func (t *Tracer) EndSpan(ctx context.Context, span *TraceSpan, err error) {
	if span == nil {
		return
	}
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Err = err
	switch span.Event {
	case TraceEventGraphStart:
		span.Event = TraceEventGraphEnd
	case TraceEventNodeStart:
		span.Event = TraceEventNodeEnd
	}
	for _, hook := range t.hooks {
		hook.OnEvent(ctx, span)
	}
}
