package scheduler

import "time"

// FindAvailableSlot returns the earliest instant t such that [t, t+duration)
// is free in both a and b and ends no later than window.End. The second
// result is false when no such slot exists; that is an ordinary outcome.
//
// Only gaps that follow a busy interval are examined. Use Anchor to make the
// stretch between window.Start and the first busy interval eligible too.
// When both schedules are empty the whole window is free and window.Start is
// returned if the window is long enough.
//
// Once one schedule runs out of intervals its calendar is treated as free
// until window.End and the scan continues over the other schedule.
//
// duration must be positive.
func FindAvailableSlot(a, b Schedule, duration time.Duration, window Window) (time.Time, bool) {
	if len(a) == 0 && len(b) == 0 {
		if window.Duration() >= duration {
			return window.Start, true
		}
		return time.Time{}, false
	}

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var latestBusyEnd time.Time
		switch {
		case i < len(a) && j < len(b):
			latestBusyEnd = later(a[i].End, b[j].End)
		case i < len(a):
			latestBusyEnd = a[i].End
		default:
			latestBusyEnd = b[j].End
		}

		nextBusyStart := earlier(a.nextStart(i, window.End), b.nextStart(j, window.End))

		if nextBusyStart.Sub(latestBusyEnd) >= duration {
			return latestBusyEnd, true
		}

		// Advance whichever busy interval ends first; ties move a.
		switch {
		case j >= len(b):
			i++
		case i >= len(a):
			j++
		case !b[j].End.Before(a[i].End):
			i++
		default:
			j++
		}
	}

	return time.Time{}, false
}

// Anchor returns a copy of s prepared for a search starting at start.
// Intervals that end at or before start are dropped and an interval
// straddling start is clipped to it. If nothing is busy at start, a
// zero-length interval is prepended so that the gap between start and the
// first busy interval is considered by FindAvailableSlot.
func Anchor(s Schedule, start time.Time) Schedule {
	anchored := make(Schedule, 0, len(s)+1)
	for _, iv := range s {
		if !iv.End.After(start) {
			continue
		}
		if iv.Start.Before(start) {
			iv.Start = start
		}
		anchored = append(anchored, iv)
	}
	if len(anchored) > 0 && anchored[0].Start.Equal(start) {
		return anchored
	}
	return append(Schedule{{Start: start, End: start}}, anchored...)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
