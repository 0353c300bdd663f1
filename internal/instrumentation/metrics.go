package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrCommand   = "command"
	attrProvider  = "provider"
	attrAccount   = "account"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Command metrics
	commandInvocationsTotal metric.Int64Counter
	commandDuration         metric.Float64Histogram

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// LLM extraction metrics
	llmExtractionsTotal   metric.Int64Counter
	llmExtractionDuration metric.Float64Histogram
	llmPromptTokens       metric.Int64Histogram

	// Scheduler metrics
	slotSearchesTotal metric.Int64Counter

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.commandInvocationsTotal, err = meter.Int64Counter(
		"command_invocations_total",
		metric.WithDescription("Total number of CLI command invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command_invocations_total counter: %w", err)
	}

	m.commandDuration, err = meter.Float64Histogram(
		"command_duration_seconds",
		metric.WithDescription("CLI command duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command_duration_seconds histogram: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.llmExtractionsTotal, err = meter.Int64Counter(
		"llm_extractions_total",
		metric.WithDescription("Total number of LLM extraction requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_extractions_total counter: %w", err)
	}

	m.llmExtractionDuration, err = meter.Float64Histogram(
		"llm_extraction_duration_seconds",
		metric.WithDescription("LLM extraction duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1.0, 2.5, 5.0, 10.0, 20.0, 40.0, 80.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_extraction_duration_seconds histogram: %w", err)
	}

	m.llmPromptTokens, err = meter.Int64Histogram(
		"llm_prompt_tokens",
		metric.WithDescription("Estimated prompt size sent to the LLM"),
		metric.WithUnit("{token}"),
		metric.WithExplicitBucketBoundaries(500, 1000, 2000, 4000, 8000, 16000, 32000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_prompt_tokens histogram: %w", err)
	}

	m.slotSearchesTotal, err = meter.Int64Counter(
		"slot_searches_total",
		metric.WithDescription("Total number of mutual availability searches by result"),
		metric.WithUnit("{search}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create slot_searches_total counter: %w", err)
	}

	return m, nil
}

// RecordCommand records a CLI command invocation. The account is only
// attached when detailed labels are enabled.
func (m *Metrics) RecordCommand(ctx context.Context, command, status, account string, duration time.Duration) {
	if m == nil || m.commandInvocationsTotal == nil || m.commandDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrCommand, command),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.commandInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.commandDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (gmail, calendar)
//   - operation: Operation type (list, get, create, delete, freebusy)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordLLMExtraction records one extraction request against an LLM provider.
// promptTokens is skipped when not positive.
func (m *Metrics) RecordLLMExtraction(ctx context.Context, provider, status string, promptTokens int, duration time.Duration) {
	if m == nil || m.llmExtractionsTotal == nil || m.llmExtractionDuration == nil || m.llmPromptTokens == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrProvider, provider),
		attribute.String(attrStatus, status),
	}

	m.llmExtractionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.llmExtractionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if promptTokens > 0 {
		m.llmPromptTokens.Record(ctx, int64(promptTokens), metric.WithAttributes(attribute.String(attrProvider, provider)))
	}
}

// RecordSlotSearch records the outcome of a mutual availability search.
// Result should be one of SlotFound, SlotNotFound, SlotSkipped.
func (m *Metrics) RecordSlotSearch(ctx context.Context, result string) {
	if m == nil || m.slotSearchesTotal == nil {
		return // Instrumentation not initialized
	}

	m.slotSearchesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
