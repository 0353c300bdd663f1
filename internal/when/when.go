// Package when parses user supplied dates and formats times for terminal
// output in the user's zone.
package when

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-module/carbon/v2"
)

// ErrEmpty is returned when there is nothing to parse.
var ErrEmpty = errors.New("empty date")

// Parse reads a free-form date or date-time such as "2024-03-01",
// "2024-03-01 14:30" or an RFC 3339 timestamp. Values without an offset are
// interpreted in loc.
func Parse(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmpty
	}

	c := carbon.Parse(value, zoneName(loc))
	if c.Error != nil {
		return time.Time{}, fmt.Errorf("cannot parse date %q: %w", value, c.Error)
	}
	if c.IsZero() {
		return time.Time{}, fmt.Errorf("cannot parse date %q", value)
	}
	return c.StdTime(), nil
}

// ParseLayout reads value with a Go reference layout, falling back to Parse
// when the layout does not match.
func ParseLayout(value, layout string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmpty
	}

	c := carbon.ParseByLayout(value, layout, zoneName(loc))
	if c.Error == nil && !c.IsZero() {
		return c.StdTime(), nil
	}
	return Parse(value, loc)
}

// DayBounds returns local midnight and 23:59 of the day containing now.
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	day := carbon.CreateFromStdTime(now, zoneName(loc))
	start := day.StartOfDay().StdTime()
	end := day.EndOfDay().StdTime().Truncate(time.Minute)
	return start, end
}

// Friendly formats t like "on January 2nd 3:04pm".
func Friendly(t time.Time, loc *time.Location) string {
	t = t.In(orLocal(loc))
	return fmt.Sprintf("on %s %s %s", t.Format("January"), humanize.Ordinal(t.Day()), t.Format("3:04pm"))
}

// Span formats a time range like "3:04PM-4:05PM".
func Span(start, end time.Time, loc *time.Location) string {
	loc = orLocal(loc)
	return start.In(loc).Format("3:04PM") + "-" + end.In(loc).Format("3:04PM")
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

func zoneName(loc *time.Location) string {
	return orLocal(loc).String()
}
