package automator

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jspinak/brobot-go/state"
)

// startTickSpan creates the root span for one automation tick. Uses the
// global tracer; exporter wiring belongs to the embedding application. The
// caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startTickSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	tracer := otel.Tracer("automator")
	ctx, span := tracer.Start(ctx, "automator.tick")
	span.SetAttributes(attribute.String("run_id", runID))

	return ctx, span
}

// startStateSpan creates a child span for handling one active state. The
// caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startStateSpan(ctx context.Context, st *state.State) (context.Context, trace.Span) {
	tracer := otel.Tracer("automator")
	ctx, span := tracer.Start(ctx, "automator.handle_state")
	span.SetAttributes(
		attribute.String("state", st.Name),
		attribute.Int64("state_id", int64(st.ID)),
	)

	return ctx, span
}
