// Package logging provides structured logging helpers for calhelper.
//
// All diagnostics go through log/slog. Command results are written to the
// command's stdout separately, so log output can be redirected or switched to
// JSON without changing what the user sees.
//
// # Usage Patterns
//
// Build the process logger once from configuration:
//
//	logger, err := logging.New(os.Stderr, "info", "text")
//
// Tag a logger with the command and account it works for:
//
//	logger = logging.WithAccount(logging.WithCommand(logger, "schedule-during"), "work")
//	logger.Debug("found mutual slot", logging.UserHash(guest), logging.Domain(guest))
//
// # Security Considerations
//
//   - Email addresses are hashed before they are logged
//   - API keys and OAuth tokens are never logged
package logging
