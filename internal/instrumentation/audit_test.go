package instrumentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testEmail   = "jane@example.com"
	testDomain  = "example.com"
	testAccount = "work"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("failed to decode log record %q: %v", buf.String(), err)
	}
	return record
}

func TestMutation_Complete(t *testing.T) {
	m := NewMutation("schedule", OperationCreate)
	if m.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	m.Complete(nil)
	if !m.Success || m.Status() != StatusSuccess {
		t.Errorf("expected success, got %+v", m)
	}
	if m.Duration < 0 {
		t.Error("Duration should not be negative")
	}

	m = NewMutation("delete-test-events", OperationDelete).Complete(errors.New("not found"))
	if m.Success || m.Status() != StatusError {
		t.Error("expected failure")
	}
	if m.Error != "not found" {
		t.Errorf("Error = %q, want %q", m.Error, "not found")
	}
}

func TestMutation_LogAttrs_Anonymised(t *testing.T) {
	m := NewMutation("schedule-during", OperationCreate).
		WithAccount(testAccount).
		WithEvent("primary", "evt1").
		WithParticipants(testEmail, "Bob@Other.org").
		Complete(nil)

	attrs := m.LogAttrs(false)

	found := false
	for _, attr := range attrs {
		if attr.Key == "participants" {
			t.Error("participants must not be logged without PII")
		}
		if attr.Key == "participant_domains" {
			found = true
			got := attr.Value.Any().([]string)
			if len(got) != 2 || got[0] != testDomain || got[1] != "other.org" {
				t.Errorf("participant_domains = %v", got)
			}
		}
	}
	if !found {
		t.Error("expected participant_domains attribute")
	}
}

func TestAuditLogger_LogMutation(t *testing.T) {
	logger, buf := newBufferLogger()
	al := NewAuditLogger(logger)

	al.LogMutation(NewMutation("schedule", OperationCreate).
		WithAccount(testAccount).
		WithEvent("primary", "evt1").
		WithParticipants(testEmail).
		Complete(nil))

	record := decodeRecord(t, buf)
	if record["msg"] != "calendar_mutation" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "INFO" {
		t.Errorf("level = %v", record["level"])
	}
	if record["event_id"] != "evt1" || record["account"] != testAccount {
		t.Errorf("unexpected record %v", record)
	}
	if strings.Contains(buf.String(), testEmail) {
		t.Error("full email must not appear without IncludePII")
	}
}

func TestAuditLogger_IncludePII(t *testing.T) {
	logger, buf := newBufferLogger()
	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true, IncludePII: true})

	al.LogMutation(NewMutation("schedule", OperationCreate).WithParticipants(testEmail).Complete(nil))

	if !strings.Contains(buf.String(), testEmail) {
		t.Errorf("expected full email in audit log: %s", buf.String())
	}
}

func TestAuditLogger_Failure(t *testing.T) {
	logger, buf := newBufferLogger()
	al := NewAuditLogger(logger)

	al.LogMutation(NewMutation("delete-test-events", OperationDelete).Complete(errors.New("gone")))

	record := decodeRecord(t, buf)
	if record["msg"] != "calendar_mutation_failed" || record["level"] != "WARN" {
		t.Errorf("unexpected record %v", record)
	}
	if record["error"] != "gone" {
		t.Errorf("error = %v", record["error"])
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	logger, buf := newBufferLogger()
	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false})

	al.LogMutation(NewMutation("schedule", OperationCreate).Complete(nil))

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %s", buf.String())
	}

	var nilLogger *AuditLogger
	nilLogger.LogMutation(NewMutation("schedule", OperationCreate).Complete(nil))
}
