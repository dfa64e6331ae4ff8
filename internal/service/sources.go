package service

import (
	"context"
	"fmt"

	otelx "github.com/prismgate/analytics/internal/adapter/otel"
	"github.com/prismgate/analytics/internal/domain"
	"github.com/prismgate/analytics/internal/resilience"
)

// callSource runs one metric source call, behind the circuit breaker when
// one is configured, and classifies any failure as an upstream source
// error. Upstream failures propagate to the caller unchanged in meaning:
// the fan-out is abandoned and nothing partial is cached. Each call gets
// its own span; failures are counted on the orchestrator's instruments.
func callSource(ctx context.Context, o *Orchestrator, b *resilience.Breaker, source string, fn func(ctx context.Context) error) error {
	sctx, span := otelx.StartSourceSpan(ctx, source)
	defer span.End()

	call := func() error { return fn(sctx) }
	if b != nil {
		inner := call
		call = func() error { return b.Execute(inner) }
	}
	if err := call(); err != nil {
		span.RecordError(err)
		if o != nil && o.tel != nil {
			o.tel.UpstreamFailures.Add(ctx, 1)
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstream, source, err)
	}
	return nil
}
