package google

import (
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"
)

// DefaultOAuthScopes are the scopes requested when a grant is created.
//
// The scopes provide access to:
//   - Google Calendar: events and free/busy, read and write
//   - Gmail: read-only, for listing messages and fetching raw mail
var DefaultOAuthScopes = []string{
	calendar.CalendarScope,
	gmail.GmailReadonlyScope,
}
