package calendar

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/calhelper/internal/instrumentation"
	"github.com/teemow/calhelper/internal/scheduler"
)

// QueryFreeBusy returns the busy intervals of each address inside window,
// in the order the addresses were given. An address the API could not
// answer for carries Errors instead of Busy.
func (c *Client) QueryFreeBusy(ctx context.Context, window scheduler.Window, emails []string) ([]FreeBusyInfo, error) {
	items := make([]*calendar.FreeBusyRequestItem, len(emails))
	for i, email := range emails {
		items[i] = &calendar.FreeBusyRequestItem{Id: email}
	}

	query := &calendar.FreeBusyRequest{
		TimeMin: window.Start.Format(time.RFC3339),
		TimeMax: window.End.Format(time.RFC3339),
		Items:   items,
	}

	var result *calendar.FreeBusyResponse
	err := c.instrument(ctx, instrumentation.OperationFreeBusy, func(ctx context.Context) error {
		var err error
		result, err = c.svc.Freebusy.Query(query).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	infos := make([]FreeBusyInfo, 0, len(emails))
	for _, email := range emails {
		info := FreeBusyInfo{Email: email}

		cal, ok := result.Calendars[email]
		if !ok {
			info.Errors = []FreeBusyError{{Domain: "calendar", Reason: "notFound"}}
			infos = append(infos, info)
			continue
		}

		for _, e := range cal.Errors {
			info.Errors = append(info.Errors, FreeBusyError{Domain: e.Domain, Reason: e.Reason})
		}
		if info.Failed() {
			infos = append(infos, info)
			continue
		}

		busy := make(scheduler.Schedule, 0, len(cal.Busy))
		for _, period := range cal.Busy {
			start, err := time.Parse(time.RFC3339, period.Start)
			if err != nil {
				return nil, fmt.Errorf("invalid busy start %q for %s: %w", period.Start, email, err)
			}
			end, err := time.Parse(time.RFC3339, period.End)
			if err != nil {
				return nil, fmt.Errorf("invalid busy end %q for %s: %w", period.End, email, err)
			}
			busy = append(busy, scheduler.Interval{Start: start, End: end})
		}
		info.Busy = scheduler.Normalize(busy)

		infos = append(infos, info)
	}

	return infos, nil
}

// FindMutualSlot looks for the earliest duration-long slot inside window
// where both a and b are free. Participants whose availability could not
// be read are returned in SlotResult.Unavailable and no search is made.
func (c *Client) FindMutualSlot(ctx context.Context, window scheduler.Window, duration time.Duration, a, b string) (SlotResult, error) {
	if duration <= 0 {
		return SlotResult{}, fmt.Errorf("duration must be positive, got %s", duration)
	}

	infos, err := c.QueryFreeBusy(ctx, window, []string{a, b})
	if err != nil {
		return SlotResult{}, err
	}

	var result SlotResult
	for _, info := range infos {
		if info.Failed() {
			result.Unavailable = append(result.Unavailable, info)
		}
	}
	if len(result.Unavailable) > 0 {
		c.metrics.RecordSlotSearch(ctx, instrumentation.SlotSkipped)
		return result, nil
	}

	_, span := instrumentation.StartSpan(ctx, "scheduler.find_slot",
		attribute.Int("scheduler.busy_a", len(infos[0].Busy)),
		attribute.Int("scheduler.busy_b", len(infos[1].Busy)),
		attribute.Int64("scheduler.duration_seconds", int64(duration.Seconds())),
	)
	start, ok := scheduler.FindAvailableSlot(
		scheduler.Anchor(infos[0].Busy, window.Start),
		scheduler.Anchor(infos[1].Busy, window.Start),
		duration,
		window,
	)
	if ok {
		instrumentation.AddSpanEvent(span, "slot.found", attribute.String("slot.start", start.Format(time.RFC3339)))
	}
	span.End()

	if !ok {
		c.metrics.RecordSlotSearch(ctx, instrumentation.SlotNotFound)
		return result, nil
	}

	c.metrics.RecordSlotSearch(ctx, instrumentation.SlotFound)
	result.Found = true
	result.Start = start
	result.End = start.Add(duration)
	return result, nil
}
