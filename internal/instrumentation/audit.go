package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/teemow/calhelper/internal/logging"
)

// Mutation captures a change made to a calendar on the user's behalf:
// an event created or deleted.
//
// # Privacy Considerations
//
// Participants holds email addresses. Unless the audit logger is
// configured with IncludePII, only their domains are logged.
type Mutation struct {
	Command      string
	Account      string
	Operation    string // create or delete
	CalendarID   string
	EventID      string
	Participants []string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewMutation starts timing a mutation issued by command.
func NewMutation(command, operation string) *Mutation {
	return &Mutation{
		Command:   command,
		Operation: operation,
		StartTime: time.Now(),
	}
}

// WithAccount sets the Google account name.
func (m *Mutation) WithAccount(account string) *Mutation {
	m.Account = account
	return m
}

// WithEvent sets the calendar and event identifiers.
func (m *Mutation) WithEvent(calendarID, eventID string) *Mutation {
	m.CalendarID = calendarID
	m.EventID = eventID
	return m
}

// WithParticipants sets the attendee addresses.
func (m *Mutation) WithParticipants(emails ...string) *Mutation {
	m.Participants = emails
	return m
}

// WithSpanContext extracts trace context from the current span.
func (m *Mutation) WithSpanContext(ctx context.Context) *Mutation {
	m.TraceID = GetTraceID(ctx)
	m.SpanID = GetSpanID(ctx)
	return m
}

// Complete marks the mutation as finished and calculates its duration.
func (m *Mutation) Complete(err error) *Mutation {
	m.Duration = time.Since(m.StartTime)
	m.Success = err == nil
	if err != nil {
		m.Error = err.Error()
	}
	return m
}

// Status returns "success" or "error" based on the Success field.
func (m *Mutation) Status() string {
	if m.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for the mutation. Participant addresses
// are included in full only when includePII is set.
func (m *Mutation) LogAttrs(includePII bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("command", m.Command),
		slog.String("operation", m.Operation),
		slog.Duration("duration", m.Duration),
		slog.Bool("success", m.Success),
	}

	if m.Account != "" {
		attrs = append(attrs, slog.String("account", m.Account))
	}
	if m.CalendarID != "" {
		attrs = append(attrs, slog.String("calendar_id", m.CalendarID))
	}
	if m.EventID != "" {
		attrs = append(attrs, slog.String("event_id", m.EventID))
	}
	if len(m.Participants) > 0 {
		if includePII {
			attrs = append(attrs, slog.Any("participants", m.Participants))
		} else {
			domains := make([]string, 0, len(m.Participants))
			for _, p := range m.Participants {
				domains = append(domains, logging.ExtractDomain(p))
			}
			attrs = append(attrs, slog.Any("participant_domains", domains))
		}
	}
	if m.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", m.TraceID))
	}
	if m.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", m.SpanID))
	}
	if m.Error != "" {
		attrs = append(attrs, slog.String("error", m.Error))
	}

	return attrs
}

// AuditLogger writes audit records for calendar mutations.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates an enabled AuditLogger that anonymises participants.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogMutation writes one audit record. Failed mutations are logged at warn.
func (al *AuditLogger) LogMutation(m *Mutation) {
	if al == nil || !al.enabled {
		return
	}

	attrs := m.LogAttrs(al.includePII)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if m.Success {
		al.logger.Info("calendar_mutation", args...)
	} else {
		al.logger.Warn("calendar_mutation_failed", args...)
	}
}
