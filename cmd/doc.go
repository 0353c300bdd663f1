// Package cmd implements the command-line interface for calhelper.
//
// This package provides the following commands:
//   - delete-test-events: Delete events titled "test event" from the calendar
//   - schedule: Create a single event
//   - schedule-during: Schedule a meeting with each guest in the first mutual free slot
//   - extract-flight: Extract flight details from a confirmation email with an LLM
//   - schedule-flight: Create a calendar event for every extracted flight
//   - recent-messages: List recent messages exchanged with given addresses
//   - today: Show today's events
//   - auth: Authorize a Google account
//   - version: Display version information
//
// Every command acts as the Google account selected with --account and
// writes its results to stdout; diagnostics go to stderr through slog.
package cmd
