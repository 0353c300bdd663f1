package google

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/calhelper/internal/instrumentation"
)

// Instrument runs one Google API call inside a google.<service>.<operation>
// span and records it in the API operation metrics. metrics may be nil.
func Instrument(ctx context.Context, metrics *instrumentation.Metrics, service, operation, account string, call func(ctx context.Context) error) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, service, operation,
		attribute.String(instrumentation.SpanAttrAccount, account),
	)
	defer span.End()

	start := time.Now()
	err := call(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	metrics.RecordGoogleAPIOperation(ctx, service, operation, status, time.Since(start))

	return err
}
