package obs

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"research-agent/graph"
)

// Hook bridges graph trace spans into Prometheus metrics and OpenTelemetry
// spans. It acts on end events only, emitting an OTel span with explicit
// start and end timestamps.
type Hook struct {
	tracer trace.Tracer
}

// NewHook creates a hook using the global tracer provider.
func NewHook() *Hook {
	return &Hook{tracer: otel.Tracer("research-agent/graph")}
}

// OnEvent implements graph.TraceHook.
func (h *Hook) OnEvent(ctx context.Context, span *graph.TraceSpan) {
	if span.Event != graph.TraceEventNodeEnd && span.Event != graph.TraceEventGraphEnd {
		return
	}

	PhaseCounter.WithLabelValues(span.NodeName).Inc()
	PhaseLatency.WithLabelValues(span.NodeName).Observe(span.Duration.Seconds())

	_, otelSpan := h.tracer.Start(ctx, span.NodeName, trace.WithTimestamp(span.StartTime))
	if span.Err != nil {
		otelSpan.RecordError(span.Err)
		otelSpan.SetStatus(codes.Error, span.Err.Error())
	}
	otelSpan.End(trace.WithTimestamp(span.EndTime))
}

// NewGraphTracer returns a graph tracer wired to this package's hook.
func NewGraphTracer() *graph.Tracer {
	t := graph.NewTracer()
	t.AddHook(NewHook())
	return t
}
