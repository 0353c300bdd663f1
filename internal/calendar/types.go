package calendar

import (
	"strings"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/calhelper/internal/scheduler"
)

// Attendee response statuses.
const (
	ResponseNeedsAction = "needsAction"
	ResponseAccepted    = "accepted"
)

// EventInput represents the input for creating a calendar event
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string // IANA name; empty sends the offset only
	Attendees   []Attendee
}

// Attendee is a participant to invite. An empty ResponseStatus leaves the
// invitation pending.
type Attendee struct {
	Email          string
	ResponseStatus string
}

// EventQuery selects events for ListEvents. Zero times leave that side of
// the range open.
type EventQuery struct {
	// Title keeps only events whose title equals it, ignoring case.
	Title   string
	TimeMin time.Time
	TimeMax time.Time
	// ExpandRecurring returns single instances instead of the recurring
	// master events, ordered by start time.
	ExpandRecurring bool
}

// EventSummary represents a simplified calendar event for listing
type EventSummary struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Organizer   string
	Status      string
	Attendees   []AttendeeInfo
}

// AttendeeInfo represents information about an event attendee
type AttendeeInfo struct {
	Email          string
	DisplayName    string
	ResponseStatus string // "needsAction", "declined", "tentative", "accepted"
	Organizer      bool
}

// FreeBusyError is one reason a calendar's availability could not be read,
// such as "notFound" for an address outside the caller's domain.
type FreeBusyError struct {
	Domain string
	Reason string
}

func (e FreeBusyError) Error() string {
	if e.Domain == "" {
		return e.Reason
	}
	return e.Domain + ": " + e.Reason
}

// FreeBusyInfo is the availability of one requested address. Either Busy
// or Errors is meaningful, never both.
type FreeBusyInfo struct {
	Email  string
	Busy   scheduler.Schedule
	Errors []FreeBusyError
}

// Failed reports whether the address's availability is unknown.
func (f FreeBusyInfo) Failed() bool {
	return len(f.Errors) > 0
}

// ErrorMessage joins the error reasons for display.
func (f FreeBusyInfo) ErrorMessage() string {
	reasons := make([]string, 0, len(f.Errors))
	for _, e := range f.Errors {
		reasons = append(reasons, e.Error())
	}
	return strings.Join(reasons, ", ")
}

// SlotResult is the outcome of FindMutualSlot. When Unavailable is not
// empty the search did not run; otherwise Found tells whether [Start, End)
// is free for both participants.
type SlotResult struct {
	Found       bool
	Start       time.Time
	End         time.Time
	Unavailable []FreeBusyInfo
}

// toEventSummary converts a Google Calendar event to an EventSummary
func toEventSummary(event *calendar.Event) EventSummary {
	if event == nil {
		return EventSummary{}
	}

	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
	}

	if event.Start != nil {
		summary.Start, summary.AllDay = parseEventTime(event.Start)
	}
	if event.End != nil {
		summary.End, _ = parseEventTime(event.End)
	}

	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}

	for _, att := range event.Attendees {
		summary.Attendees = append(summary.Attendees, AttendeeInfo{
			Email:          att.Email,
			DisplayName:    att.DisplayName,
			ResponseStatus: att.ResponseStatus,
			Organizer:      att.Organizer,
		})
	}

	return summary
}

// parseEventTime reads a timed or all-day event boundary. The second
// result is true for all-day dates.
func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t, false
		}
	}
	if edt.Date != "" {
		if t, err := time.ParseInLocation("2006-01-02", edt.Date, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// toEventDateTime converts t for the API, naming the zone when known.
func toEventDateTime(t time.Time, timeZone string) *calendar.EventDateTime {
	return &calendar.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: timeZone,
	}
}

// sendUpdates maps the notify flag onto the API's sendUpdates parameter.
func sendUpdates(notify bool) string {
	if notify {
		return "all"
	}
	return "none"
}
