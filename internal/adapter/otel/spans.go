package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "prismgate"

// StartComputeSpan starts a span for a cache-miss fan-out computation,
// keyed by the cache key the result will be stored under.
func StartComputeSpan(ctx context.Context, key string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "compute",
		trace.WithAttributes(
			attribute.String("cache.key", key),
		),
	)
}

// StartSourceSpan starts a span for one metric source call within a fan-out.
func StartSourceSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "source",
		trace.WithAttributes(
			attribute.String("source.name", source),
		),
	)
}

// StartExportSpan starts a span for an export serialization.
func StartExportSpan(ctx context.Context, tenantID, format string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "export",
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.String("export.format", format),
		),
	)
}
