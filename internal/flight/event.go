package flight

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teemow/calhelper/internal/calendar"
	"github.com/teemow/calhelper/internal/when"
)

// DatetimeLayout is the format flight datetimes are extracted in.
const DatetimeLayout = "Mon, Jan 02, 2006 03:04 PM"

// Title returns the calendar title of the flight, e.g. "Flight UA 1850 SFO->EWR".
func (f Flight) Title() string {
	return fmt.Sprintf("Flight %s %s->%s", f.FlightNumber, f.DepartureAirportCode, f.ArrivalAirportCode)
}

// Times returns departure and arrival, read in loc.
func (f Flight) Times(loc *time.Location) (time.Time, time.Time, error) {
	start, err := when.ParseLayout(f.DepartureDatetime, DatetimeLayout, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("flight %s: invalid departure time: %w", f.FlightNumber, err)
	}
	end, err := when.ParseLayout(f.ArrivalDatetime, DatetimeLayout, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("flight %s: invalid arrival time: %w", f.FlightNumber, err)
	}
	return start, end, nil
}

// EventInput builds the calendar event for the flight. The description is
// the flight itself as indented JSON.
func (f Flight) EventInput(loc *time.Location) (calendar.EventInput, error) {
	start, end, err := f.Times(loc)
	if err != nil {
		return calendar.EventInput{}, err
	}

	description, err := json.MarshalIndent(f, "", "    ")
	if err != nil {
		return calendar.EventInput{}, fmt.Errorf("failed to encode flight %s: %w", f.FlightNumber, err)
	}

	return calendar.EventInput{
		Summary:     f.Title(),
		Description: string(description),
		Start:       start,
		End:         end,
	}, nil
}
