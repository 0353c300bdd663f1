// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for calhelper commands.
//
// # Metrics
//
// Command Metrics:
//   - command_invocations_total: Counter of command runs by command and status
//   - command_duration_seconds: Histogram of command durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// LLM Metrics:
//   - llm_extractions_total: Counter of extraction requests by provider and status
//   - llm_extraction_duration_seconds: Histogram of extraction durations
//   - llm_prompt_tokens: Histogram of estimated prompt sizes
//
// Scheduler Metrics:
//   - slot_searches_total: Counter of mutual availability searches by result
//
// A command runs for seconds, so there is no scrape endpoint. With the
// prometheus exporter the metrics live in a private registry which
// Shutdown writes to Config.MetricsTextfile, ready for the node-exporter
// textfile collector.
//
// # Tracing
//
// Spans are created for:
//   - Commands (command.<name>)
//   - Google API calls (google.<service>.<operation>)
//   - LLM extraction requests (llm.<provider>.extract)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout, none (default: prometheus)
//   - METRICS_TEXTFILE: Prometheus textfile written on shutdown
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	ctx, span := instrumentation.StartCommandSpan(ctx, "today")
//	defer span.End()
//
//	provider.Metrics().RecordGoogleAPIOperation(ctx, "calendar", "list", "success", time.Since(start))
package instrumentation
