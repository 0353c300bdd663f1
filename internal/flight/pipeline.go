package flight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/calhelper/internal/instrumentation"
	"github.com/teemow/calhelper/internal/logging"
	"github.com/teemow/calhelper/internal/mailtext"
	"github.com/teemow/calhelper/internal/tokens"
)

var (
	// ErrTokenLimit is returned when the prepared email is still larger
	// than the provider accepts.
	ErrTokenLimit = errors.New("token length too long")

	// ErrNoFlightDetails is returned when the provider found nothing.
	ErrNoFlightDetails = errors.New("no flight details found")
)

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	// TokenLimit is the provider's prompt limit. When positive the email is
	// reduced to its tag-stripped body before it is sent and rejected if
	// it is still too long. Zero sends the raw email.
	TokenLimit int

	// Counter counts prompt tokens; defaults to tokens.Estimator.
	Counter tokens.Counter

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// Pipeline runs one extraction end to end.
type Pipeline struct {
	extractor Extractor
	limit     int
	counter   tokens.Counter
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// NewPipeline creates a Pipeline around extractor.
func NewPipeline(extractor Extractor, cfg PipelineConfig) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		limit:     cfg.TokenLimit,
		counter:   cfg.Counter,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
	if p.counter == nil {
		p.counter = tokens.Estimator{}
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Extract returns the itinerary found in rawEmail, an RFC 822 message.
func (p *Pipeline) Extract(ctx context.Context, rawEmail string) (Itinerary, error) {
	logger := p.logger.With(logging.Provider(p.extractor.Provider()))

	prompt, promptTokens, err := p.prepare(logger, rawEmail)
	if err != nil {
		return Itinerary{}, err
	}

	ctx, span := instrumentation.StartLLMSpan(ctx, p.extractor.Provider(),
		instrumentation.NewSpanAttributeBuilder().WithModel(p.extractor.Model()).Build()...)
	defer span.End()
	span.SetAttributes(attribute.Int("llm.prompt_tokens", promptTokens))

	start := time.Now()
	answer, err := p.extractor.Extract(ctx, prompt)
	duration := time.Since(start)
	logger.Info(fmt.Sprintf("%s extraction ran in: %.5f seconds", p.extractor.Provider(), duration.Seconds()),
		"model", p.extractor.Model())

	status := instrumentation.StatusSuccess
	defer func() {
		p.metrics.RecordLLMExtraction(ctx, p.extractor.Provider(), status, promptTokens, duration)
	}()

	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		return Itinerary{}, err
	}

	itinerary, err := ParseItinerary(answer)
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		return Itinerary{}, err
	}

	instrumentation.SetSpanSuccess(span)
	if itinerary.Empty() {
		return Itinerary{}, ErrNoFlightDetails
	}
	span.SetAttributes(attribute.Int("flight.count", len(itinerary.Flights)))
	return itinerary, nil
}

// prepare picks the text to send. Token-limited providers get the
// tag-stripped body; the others get the whole message.
func (p *Pipeline) prepare(logger *slog.Logger, rawEmail string) (string, int, error) {
	if p.limit <= 0 {
		return rawEmail, p.counter.Count(rawEmail), nil
	}

	logger.Info("estimated tokens from email", "tokens", p.counter.Count(rawEmail))

	body, err := mailtext.BodyOnly(rawEmail)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read email body: %w", err)
	}
	logger.Info("estimated tokens from email body only", "tokens", p.counter.Count(body))

	stripped := mailtext.StripTags(body)
	n := p.counter.Count(stripped)
	logger.Info("estimated tokens from email with tags stripped", "tokens", n)

	if n > p.limit {
		return "", n, fmt.Errorf("%w: %d tokens, limit is %d", ErrTokenLimit, n, p.limit)
	}
	return stripped, n, nil
}
