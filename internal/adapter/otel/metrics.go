package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "prismgate"

// Metrics holds all PrismGate metric instruments.
type Metrics struct {
	CacheHits        metric.Int64Counter
	CacheMisses      metric.Int64Counter
	UpstreamFailures metric.Int64Counter
	Exports          metric.Int64Counter
	ComputeDuration  metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.CacheHits, err = meter.Int64Counter("prismgate.cache.hits",
		metric.WithDescription("Number of analytics cache hits"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("prismgate.cache.misses",
		metric.WithDescription("Number of analytics cache misses"))
	if err != nil {
		return nil, err
	}

	m.UpstreamFailures, err = meter.Int64Counter("prismgate.upstream.failures",
		metric.WithDescription("Number of failed metric source calls"))
	if err != nil {
		return nil, err
	}

	m.Exports, err = meter.Int64Counter("prismgate.exports",
		metric.WithDescription("Number of export jobs created"))
	if err != nil {
		return nil, err
	}

	m.ComputeDuration, err = meter.Float64Histogram("prismgate.compute.duration_seconds",
		metric.WithDescription("Cache-miss compute duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
