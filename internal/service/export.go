package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	otelx "github.com/prismgate/analytics/internal/adapter/otel"
	"github.com/prismgate/analytics/internal/domain"
	"github.com/prismgate/analytics/internal/domain/analytics"
	"github.com/prismgate/analytics/internal/domain/export"
)

// StatsProvider computes the composite dashboard result an export is
// serialized from.
type StatsProvider interface {
	TenantStats(ctx context.Context, q analytics.Query) (*analytics.TenantAIStats, error)
}

// csvColumns is the flattened projection of a composite result for the
// delimited format. The list is versioned by position: append new columns
// at the end, never reorder or remove, so downstream spreadsheet imports
// stay stable. The trailing csvMetricColumns entries are the derived-metric
// columns dropped when a caller asks for a metrics-free export.
var csvColumns = []string{
	"tenant_id",
	"period",
	"start_date",
	"end_date",
	"total_cost_usd",
	"total_messages",
	"total_conversations",
	"total_tokens_in",
	"total_tokens_out",
	"active_users",
	"avg_response_time_ms",
	"avg_confidence",
	"estimated_savings_usd",
	"projected_monthly_cost_usd",
	"projected_annual_cost_usd",
}

// csvMetricColumns counts the derived-metric columns at the tail of
// csvColumns.
const csvMetricColumns = 5

// ExportService serializes composite results into downloadable artifacts.
// Exports are computed synchronously; the job registry exists so the
// async-shaped job endpoints can report status and serve downloads, and it
// is in-memory only.
type ExportService struct {
	stats StatsProvider
	log   *slog.Logger
	tel   *otelx.Metrics
	now   func() time.Time

	mu   sync.RWMutex
	jobs map[string]*export.Job
}

// NewExportService creates an ExportService backed by the given stats
// provider. tel may be nil when telemetry is disabled.
func NewExportService(stats StatsProvider, log *slog.Logger, tel *otelx.Metrics) *ExportService {
	return &ExportService{
		stats: stats,
		log:   log,
		tel:   tel,
		now:   time.Now,
		jobs:  make(map[string]*export.Job),
	}
}

// Export computes the composite result for the query and serializes it in
// the requested format. Unknown formats fail with ErrUnsupportedFormat and
// no artifact. includeMetrics only affects the CSV projection, which drops
// the derived-metric columns when it is false; the JSON payload is the full
// composite result either way.
func (s *ExportService) Export(ctx context.Context, q analytics.Query, format export.Format, includeMetrics bool) (*export.Artifact, error) {
	if err := validateFormat(format); err != nil {
		return nil, err
	}
	ctx, span := otelx.StartExportSpan(ctx, q.TenantID, string(format))
	defer span.End()

	stats, err := s.stats.TenantStats(ctx, q)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	artifact, err := s.serialize(stats, format, includeMetrics)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if s.tel != nil {
		s.tel.Exports.Add(ctx, 1)
	}
	return artifact, nil
}

// CreateJob runs an export synchronously and registers it in the job
// registry under a fresh ID. The returned job is already completed.
func (s *ExportService) CreateJob(ctx context.Context, q analytics.Query, format export.Format, includeMetrics bool) (*export.Job, error) {
	artifact, err := s.Export(ctx, q, format, includeMetrics)
	if err != nil {
		return nil, err
	}

	job := &export.Job{
		ID:        uuid.NewString(),
		TenantID:  q.TenantID,
		Format:    format,
		Status:    export.StatusCompleted,
		CreatedAt: s.now().UTC(),
		Artifact:  artifact,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	s.log.Info("export job completed",
		"job_id", job.ID, "tenant_id", job.TenantID, "format", string(format), "bytes", len(artifact.Data))
	return job, nil
}

// Job returns a registered job by ID, or domain.ErrNotFound.
func (s *ExportService) Job(id string) (*export.Job, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("export job %s: %w", id, domain.ErrNotFound)
	}
	return job, nil
}

// Artifact returns a registered job's artifact for download, or
// domain.ErrNotFound.
func (s *ExportService) Artifact(id string) (*export.Artifact, error) {
	job, err := s.Job(id)
	if err != nil {
		return nil, err
	}
	return job.Artifact, nil
}

func validateFormat(format export.Format) error {
	switch format {
	case export.FormatJSON, export.FormatCSV:
		return nil
	default:
		return fmt.Errorf("export format %q: %w", string(format), domain.ErrUnsupportedFormat)
	}
}

func (s *ExportService) serialize(stats *analytics.TenantAIStats, format export.Format, includeMetrics bool) (*export.Artifact, error) {
	stamp := s.now().UTC().Format("20060102-150405")
	switch format {
	case export.FormatJSON:
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode export payload: %w", err)
		}
		return &export.Artifact{
			FileName:    fmt.Sprintf("ai-stats-%s-%s.json", stats.TenantID, stamp),
			ContentType: export.ContentTypeJSON,
			Data:        data,
		}, nil
	case export.FormatCSV:
		data, err := flattenCSV(stats, includeMetrics)
		if err != nil {
			return nil, err
		}
		return &export.Artifact{
			FileName:    fmt.Sprintf("ai-stats-%s-%s.csv", stats.TenantID, stamp),
			ContentType: export.ContentTypeCSV,
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("export format %q: %w", string(format), domain.ErrUnsupportedFormat)
	}
}

// flattenCSV writes the header and one row holding the top-level scalars of
// the result, in csvColumns order. With includeMetrics false the trailing
// derived-metric columns are dropped from both header and row.
func flattenCSV(stats *analytics.TenantAIStats, includeMetrics bool) ([]byte, error) {
	row := []string{
		stats.TenantID,
		stats.Period,
		stats.Range.Start.UTC().Format(keyDateLayout),
		stats.Range.End.UTC().Format(keyDateLayout),
		formatFloat(stats.TotalCostUSD),
		strconv.FormatInt(stats.TotalMessages, 10),
		strconv.FormatInt(stats.TotalConversations, 10),
		strconv.FormatInt(stats.TotalTokensIn, 10),
		strconv.FormatInt(stats.TotalTokensOut, 10),
		strconv.FormatInt(stats.ActiveUsers, 10),
		formatFloat(stats.AvgResponseTimeMs),
		formatFloat(stats.AvgConfidence),
		formatFloat(stats.Savings.TotalEstimatedUSD),
		formatFloat(stats.Projection.MonthlyCostUSD),
		formatFloat(stats.Projection.AnnualCostUSD),
	}
	if len(row) != len(csvColumns) {
		return nil, fmt.Errorf("csv projection has %d values for %d columns", len(row), len(csvColumns))
	}

	header := csvColumns
	if !includeMetrics {
		header = csvColumns[:len(csvColumns)-csvMetricColumns]
		row = row[:len(row)-csvMetricColumns]
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.Write(row); err != nil {
		return nil, fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
