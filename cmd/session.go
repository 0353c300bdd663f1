package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/teemow/calhelper/internal/calendar"
	"github.com/teemow/calhelper/internal/config"
	"github.com/teemow/calhelper/internal/flight"
	"github.com/teemow/calhelper/internal/gmail"
	"github.com/teemow/calhelper/internal/google"
	"github.com/teemow/calhelper/internal/instrumentation"
	"github.com/teemow/calhelper/internal/logging"
	"github.com/teemow/calhelper/internal/tokens"
)

// session is the per-invocation state of a command: configuration,
// logging, telemetry and the command span.
type session struct {
	opts    *options
	name    string
	cfg     config.Config
	loc     *time.Location
	logger  *slog.Logger
	instr   *instrumentation.Provider
	audit   *instrumentation.AuditLogger
	span    trace.Span
	started time.Time
}

// startSession loads configuration and starts telemetry for cmd. The
// returned context carries the command span; end must be called with the
// command's result.
func startSession(cmd *cobra.Command, opts *options) (context.Context, *session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("account") {
		cfg.Account = opts.account
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	logger = logging.WithAccount(logging.WithCommand(logger, cmd.Name()), cfg.Account)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if opts.metricsTextfile != "" {
		instrConfig.MetricsTextfile = opts.metricsTextfile
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	instr, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	ctx, span := instrumentation.StartCommandSpan(ctx, cmd.Name(),
		instrumentation.NewSpanAttributeBuilder().WithAccount(cfg.Account).Build()...)

	s := &session{
		opts:    opts,
		name:    cmd.Name(),
		cfg:     cfg,
		loc:     loc,
		logger:  logger,
		instr:   instr,
		audit:   instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging),
		span:    span,
		started: time.Now(),
	}
	logger.Debug("command started")
	return ctx, s, nil
}

// end records the command outcome and flushes telemetry. It returns err
// unchanged.
func (s *session) end(ctx context.Context, err error) error {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(s.span, err)
	} else {
		instrumentation.SetSpanSuccess(s.span)
	}

	duration := time.Since(s.started)
	s.instr.Metrics().RecordCommand(ctx, s.name, status, s.cfg.Account, duration)
	s.span.End()

	s.logger.Debug("command finished", logging.Status(status), slog.Duration(logging.KeyDuration, duration))

	if shutdownErr := s.instr.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
		s.logger.Warn("error during instrumentation shutdown", logging.Err(shutdownErr))
	}
	return err
}

// googleAuth returns the OAuth client and token source for the account.
func (s *session) googleAuth() (*oauth2.Config, *google.FileTokenProvider, error) {
	gc, err := s.cfg.RequireGoogleClient()
	if err != nil {
		return nil, nil, err
	}
	conf := google.OAuthConfig(gc.ClientID, gc.ClientSecret)
	if s.opts.oauthEndpoint != nil {
		conf.Endpoint = *s.opts.oauthEndpoint
	}
	return conf, google.NewFileTokenProvider(google.NewStore(gc.TokenDir)), nil
}

func (s *session) calendarClient(ctx context.Context) (*calendar.Client, error) {
	var (
		client *calendar.Client
		err    error
	)
	if len(s.opts.googleOptions) > 0 {
		client, err = calendar.NewClientWithOptions(ctx, s.cfg.Account, s.opts.googleOptions...)
	} else {
		conf, provider, authErr := s.googleAuth()
		if authErr != nil {
			return nil, authErr
		}
		client, err = calendar.NewClientForAccountWithProvider(ctx, s.cfg.Account, conf, provider)
	}
	if err != nil {
		return nil, err
	}
	client.SetMetrics(s.instr.Metrics())
	return client, nil
}

func (s *session) gmailClient(ctx context.Context) (*gmail.Client, error) {
	var (
		client *gmail.Client
		err    error
	)
	if len(s.opts.googleOptions) > 0 {
		client, err = gmail.NewClientWithOptions(ctx, s.cfg.Account, s.opts.googleOptions...)
	} else {
		conf, provider, authErr := s.googleAuth()
		if authErr != nil {
			return nil, authErr
		}
		client, err = gmail.NewClientForAccountWithProvider(ctx, s.cfg.Account, conf, provider)
	}
	if err != nil {
		return nil, err
	}
	client.SetMetrics(s.instr.Metrics())
	return client, nil
}

// flightPipeline builds the extraction pipeline for the named provider.
// The returned func releases provider resources.
func (s *session) flightPipeline(ctx context.Context, provider string) (*flight.Pipeline, func(), error) {
	if provider == "" {
		provider = s.cfg.LLM.Provider
	}

	var (
		extractor flight.Extractor
		pc        config.ProviderConfig
		release   = func() {}
		err       error
	)

	if s.opts.extractor != nil {
		extractor = s.opts.extractor
		if pc, err = s.cfg.Provider(provider); err != nil {
			return nil, nil, err
		}
	} else {
		if pc, err = s.cfg.RequireProvider(provider); err != nil {
			return nil, nil, err
		}
		switch provider {
		case config.ProviderOpenAI:
			extractor, err = flight.NewOpenAIExtractor(flight.OpenAIConfig{
				APIKey:  pc.APIKey,
				Model:   pc.Model,
				BaseURL: pc.BaseURL,
			})
		case config.ProviderAnthropic:
			extractor, err = flight.NewAnthropicExtractor(flight.AnthropicConfig{
				APIKey:    pc.APIKey,
				Model:     pc.Model,
				MaxTokens: pc.MaxTokens,
				BaseURL:   pc.BaseURL,
			})
		case config.ProviderGemini:
			var gemini *flight.GeminiExtractor
			gemini, err = flight.NewGeminiExtractor(ctx, flight.GeminiConfig{APIKey: pc.APIKey, Model: pc.Model})
			if err == nil {
				extractor = gemini
				release = func() {
					if closeErr := gemini.Close(); closeErr != nil {
						s.logger.Debug("failed to close gemini client", logging.Err(closeErr))
					}
				}
			}
		}
		if err != nil {
			return nil, nil, err
		}
	}

	pipeline := flight.NewPipeline(extractor, flight.PipelineConfig{
		TokenLimit: pc.TokenLimit,
		Counter:    tokens.ForModel(pc.Model, s.logger),
		Logger:     s.logger,
		Metrics:    s.instr.Metrics(),
	})
	return pipeline, release, nil
}

// recordMutation writes the audit record of a calendar change.
func (s *session) recordMutation(ctx context.Context, m *instrumentation.Mutation, err error) {
	s.audit.LogMutation(m.WithAccount(s.cfg.Account).WithSpanContext(ctx).Complete(err))
}

// createEvent creates an event on the configured calendar and audits it.
func (s *session) createEvent(ctx context.Context, client *calendar.Client, input calendar.EventInput, notify bool) (*calendar.EventSummary, error) {
	participants := make([]string, 0, len(input.Attendees))
	for _, a := range input.Attendees {
		participants = append(participants, a.Email)
	}
	m := instrumentation.NewMutation(s.name, instrumentation.OperationCreate).WithParticipants(participants...)

	event, err := client.CreateEvent(ctx, s.cfg.Calendar, input, notify)
	if event != nil {
		m.WithEvent(s.cfg.Calendar, event.ID)
		instrumentation.AddSpanEvent(s.span, "event.created",
			instrumentation.NewSpanAttributeBuilder().WithResource("event", event.ID).Build()...)
	} else {
		m.WithEvent(s.cfg.Calendar, "")
	}
	s.recordMutation(ctx, m, err)
	return event, err
}

// deleteEvent deletes an event from the configured calendar and audits it.
func (s *session) deleteEvent(ctx context.Context, client *calendar.Client, eventID string, notify bool) error {
	m := instrumentation.NewMutation(s.name, instrumentation.OperationDelete).WithEvent(s.cfg.Calendar, eventID)
	err := client.DeleteEvent(ctx, s.cfg.Calendar, eventID, notify)
	if err == nil {
		instrumentation.AddSpanEvent(s.span, "event.deleted",
			instrumentation.NewSpanAttributeBuilder().WithResource("event", eventID).Build()...)
	}
	s.recordMutation(ctx, m, err)
	return err
}
