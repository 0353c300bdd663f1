package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendarapi "google.golang.org/api/calendar/v3"
)

func testEvent(id, summary, start, end string) *calendarapi.Event {
	return &calendarapi.Event{
		Id:      id,
		Summary: summary,
		Start:   &calendarapi.EventDateTime{DateTime: start},
		End:     &calendarapi.EventDateTime{DateTime: end},
	}
}

func TestDeleteTestEvents_Yes(t *testing.T) {
	env := newTestEnv(t)
	env.google.events = []*calendarapi.Event{
		testEvent("a1", "test event", "2024-03-01T09:00:00Z", "2024-03-01T09:30:00Z"),
		testEvent("a2", "Test Event", "2024-03-02T09:00:00Z", "2024-03-02T09:30:00Z"),
		testEvent("a3", "test event planning", "2024-03-03T09:00:00Z", "2024-03-03T09:30:00Z"),
	}

	out, _, err := env.run("", "delete-test-events", "--yes")
	require.NoError(t, err)

	assert.Equal(t, "Found 2 events\n* Deleting event with ID a1\n* Deleting event with ID a2\n", out)
	assert.Equal(t, []string{"a1", "a2"}, env.google.deleted)
}

func TestDeleteTestEvents_Prompt(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		deleted []string
	}{
		{"confirmed", "y\n", []string{"a1"}},
		{"declined", "n\n", nil},
		{"no answer", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.google.events = []*calendarapi.Event{
				testEvent("a1", "test event", "2024-03-01T09:00:00Z", "2024-03-01T09:30:00Z"),
			}

			out, _, err := env.run(tt.answer, "delete-test-events")
			require.NoError(t, err)
			assert.Contains(t, out, "Found 1 events\nDo you want to delete these events? (y/n): ")
			assert.Equal(t, tt.deleted, env.google.deleted)
		})
	}
}

func TestDeleteTestEvents_NoNotify(t *testing.T) {
	env := newTestEnv(t)
	env.google.events = []*calendarapi.Event{
		testEvent("a1", "cleanup", "2024-03-01T09:00:00Z", "2024-03-01T09:30:00Z"),
	}

	out, _, err := env.run("", "delete-test-events", "--title", "cleanup", "--yes", "--notify=false")
	require.NoError(t, err)
	assert.Contains(t, out, "* Deleting event with ID a1")
	assert.Contains(t, env.google.queries[0], "q=cleanup")
}

func TestDeleteTestEvents_NoneFound(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("", "delete-test-events")
	require.NoError(t, err)
	assert.Equal(t, "Found 0 events\n", out)
}

func TestSchedule(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("", "schedule",
		"--title", "Planning",
		"--description", "Quarterly planning",
		"--start", "2024-03-01 14:00:00",
		"--end", "2024-03-01 15:00:00",
		"--email", "guest@example.com",
		"--email", "other@example.com",
	)
	require.NoError(t, err)
	assert.Equal(t, "Event created with ID: evt-1\n", out)

	require.Len(t, env.google.created, 1)
	ev := env.google.created[0]
	assert.Equal(t, "Planning", ev.Summary)
	assert.Equal(t, "Quarterly planning", ev.Description)
	assert.Equal(t, "2024-03-01T14:00:00Z", ev.Start.DateTime)
	assert.Equal(t, "2024-03-01T15:00:00Z", ev.End.DateTime)
	require.Len(t, ev.Attendees, 2)
	assert.Equal(t, "guest@example.com", ev.Attendees[0].Email)
	assert.Contains(t, env.google.queries[0], "sendUpdates=all")
}

func TestSchedule_InvalidStart(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("", "schedule", "--title", "x", "--start", "whenever", "--end", "2024-03-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --start")
	assert.Empty(t, env.google.created)
}

func TestSchedule_RequiresTitle(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("", "schedule", "--start", "2024-03-01", "--end", "2024-03-02")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestScheduleDuring(t *testing.T) {
	env := newTestEnv(t)
	env.google.busy[testMe] = &calendarapi.FreeBusyCalendar{Busy: []*calendarapi.TimePeriod{
		{Start: "2024-03-01T09:00:00Z", End: "2024-03-01T10:00:00Z"},
	}}
	env.google.busy["guest@example.com"] = &calendarapi.FreeBusyCalendar{Busy: []*calendarapi.TimePeriod{
		{Start: "2024-03-01T10:00:00Z", End: "2024-03-01T10:30:00Z"},
	}}
	env.google.busy["busy@example.com"] = &calendarapi.FreeBusyCalendar{Busy: []*calendarapi.TimePeriod{
		{Start: "2024-03-01T09:00:00Z", End: "2024-03-01T12:00:00Z"},
	}}
	env.google.busy["denied@other.org"] = &calendarapi.FreeBusyCalendar{Errors: []*calendarapi.Error{
		{Domain: "global", Reason: "notFound"},
	}}

	out, _, err := env.run("", "schedule-during",
		"--title", "Sync",
		"--start", "2024-03-01T09:00:00Z",
		"--end", "2024-03-01T12:00:00Z",
		"--email", "guest@example.com",
		"--email", "busy@example.com",
		"--email", "denied@other.org",
	)
	require.NoError(t, err)

	assert.Equal(t,
		"Will check availability for the following emails: guest@example.com, busy@example.com, denied@other.org\n"+
			"Scheduled 30m event with guest@example.com starting on March 1st 10:30am\n"+
			"Couldn't find mutual availability with busy@example.com\n"+
			"Error fetching availability for denied@other.org: global: notFound\n",
		out)

	require.Len(t, env.google.created, 1)
	ev := env.google.created[0]
	assert.Equal(t, "Sync", ev.Summary)
	assert.Equal(t, "2024-03-01T10:30:00Z", ev.Start.DateTime)
	assert.Equal(t, "2024-03-01T11:00:00Z", ev.End.DateTime)
	require.Len(t, ev.Attendees, 2)
	assert.Equal(t, "guest@example.com", ev.Attendees[0].Email)
	assert.Equal(t, testMe, ev.Attendees[1].Email)
	assert.Equal(t, "accepted", ev.Attendees[1].ResponseStatus)
}

func TestScheduleDuring_CustomDuration(t *testing.T) {
	env := newTestEnv(t)
	env.google.busy[testMe] = &calendarapi.FreeBusyCalendar{}
	env.google.busy["guest@example.com"] = &calendarapi.FreeBusyCalendar{}

	out, _, err := env.run("", "schedule-during",
		"--title", "Deep dive",
		"--start", "2024-03-01T09:00:00Z",
		"--end", "2024-03-01T12:00:00Z",
		"--email", "guest@example.com",
		"--duration", "90",
		"--notify=false",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled 90m event with guest@example.com starting on March 1st 9:00am")

	require.Len(t, env.google.created, 1)
	assert.Equal(t, "2024-03-01T10:30:00Z", env.google.created[0].End.DateTime)
	assert.Contains(t, env.google.queries[len(env.google.queries)-1], "sendUpdates=none")
}

func TestScheduleDuring_InvalidWindow(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("", "schedule-during", "--title", "x",
		"--start", "2024-03-01T12:00:00Z", "--end", "2024-03-01T09:00:00Z", "--email", "g@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--end must be after --start")
}

func TestScheduleDuring_InvalidDuration(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("", "schedule-during", "--title", "x",
		"--start", "2024-03-01T09:00:00Z", "--end", "2024-03-01T12:00:00Z", "--duration", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--duration must be positive")
}

func TestToday(t *testing.T) {
	env := newTestEnv(t)
	env.google.events = []*calendarapi.Event{
		testEvent("e1", "Standup", "2024-03-01T09:00:00Z", "2024-03-01T09:15:00Z"),
		testEvent("e2", "Lunch", "2024-03-01T12:30:00Z", "2024-03-01T13:30:00Z"),
	}

	out, _, err := env.run("", "today")
	require.NoError(t, err)
	assert.Equal(t, "Today's events:\n* Standup at 9:00AM-9:15AM\n* Lunch at 12:30PM-1:30PM\n", out)

	query := env.google.queries[0]
	assert.Contains(t, query, "singleEvents=true")
	assert.Contains(t, query, "orderBy=startTime")
	assert.Contains(t, query, "timeMin=2024-03-01T00%3A00%3A00Z")
	assert.Contains(t, query, "timeMax=2024-03-01T23%3A59%3A00Z")
}

func TestToday_NoEvents(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("", "today")
	require.NoError(t, err)
	assert.Empty(t, out)
}
