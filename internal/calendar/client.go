package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/calhelper/internal/google"
	"github.com/teemow/calhelper/internal/instrumentation"
)

// PrimaryCalendar is the calendar ID of the account's own calendar.
const PrimaryCalendar = "primary"

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	account string // The account this client is associated with
	metrics *instrumentation.Metrics
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// SetMetrics enables API operation metrics for the client.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// NewClientForAccountWithProvider creates a Calendar client for account,
// authorized with the token the provider holds for it.
func NewClientForAccountWithProvider(ctx context.Context, account string, conf *oauth2.Config, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.HTTPClient(ctx, conf, provider, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}
	return NewClientWithOptions(ctx, account, option.WithHTTPClient(httpClient))
}

// NewClientWithOptions creates a Calendar client from raw API client
// options, for example a custom endpoint.
func NewClientWithOptions(ctx context.Context, account string, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

func (c *Client) instrument(ctx context.Context, operation string, call func(ctx context.Context) error) error {
	return google.Instrument(ctx, c.metrics, instrumentation.ServiceCalendar, operation, c.account, call)
}

// PrimaryEmail returns the address of the account's primary calendar,
// which is the account's own email address.
func (c *Client) PrimaryEmail(ctx context.Context) (string, error) {
	var email string
	err := c.instrument(ctx, instrumentation.OperationGet, func(ctx context.Context) error {
		cal, err := c.svc.Calendars.Get(PrimaryCalendar).Context(ctx).Do()
		if err != nil {
			return err
		}
		email = cal.Id
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get primary calendar: %w", err)
	}
	return email, nil
}

// ListEvents lists events in a calendar. A title in the query is used for
// the server side search and then matched exactly, ignoring case, because
// the search also matches descriptions and partial words.
func (c *Client) ListEvents(ctx context.Context, calendarID string, query EventQuery) ([]EventSummary, error) {
	call := c.svc.Events.List(calendarID).SingleEvents(query.ExpandRecurring)
	if query.ExpandRecurring {
		call = call.OrderBy("startTime")
	}
	if !query.TimeMin.IsZero() {
		call = call.TimeMin(query.TimeMin.Format(time.RFC3339))
	}
	if !query.TimeMax.IsZero() {
		call = call.TimeMax(query.TimeMax.Format(time.RFC3339))
	}
	title := strings.TrimSpace(query.Title)
	if title != "" {
		call = call.Q(title)
	}

	var summaries []EventSummary
	err := c.instrument(ctx, instrumentation.OperationList, func(ctx context.Context) error {
		return call.Pages(ctx, func(page *calendar.Events) error {
			for _, event := range page.Items {
				if title != "" && !strings.EqualFold(strings.TrimSpace(event.Summary), title) {
					continue
				}
				summaries = append(summaries, toEventSummary(event))
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return summaries, nil
}

// CreateEvent creates a new calendar event. notify controls whether
// attendees are sent invitations.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput, notify bool) (*EventSummary, error) {
	if !input.End.After(input.Start) {
		return nil, fmt.Errorf("event end %s must be after start %s",
			input.End.Format(time.RFC3339), input.Start.Format(time.RFC3339))
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start:       toEventDateTime(input.Start, input.TimeZone),
		End:         toEventDateTime(input.End, input.TimeZone),
	}

	for _, att := range input.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{
			Email:          att.Email,
			ResponseStatus: att.ResponseStatus,
		})
	}

	var created *calendar.Event
	err := c.instrument(ctx, instrumentation.OperationCreate, func(ctx context.Context) error {
		var err error
		created, err = c.svc.Events.Insert(calendarID, event).
			SendUpdates(sendUpdates(notify)).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// DeleteEvent deletes a calendar event. notify controls whether attendees
// are sent cancellations.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string, notify bool) error {
	err := c.instrument(ctx, instrumentation.OperationDelete, func(ctx context.Context) error {
		return c.svc.Events.Delete(calendarID, eventID).
			SendUpdates(sendUpdates(notify)).
			Context(ctx).
			Do()
	})
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}
