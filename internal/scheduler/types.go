package scheduler

import (
	"slices"
	"time"
)

// Interval is a half-open busy range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether iv and other share any instant.
// Zero-length intervals never overlap anything.
func (iv Interval) Overlaps(other Interval) bool {
	if !iv.Start.Before(iv.End) || !other.Start.Before(other.End) {
		return false
	}
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Schedule is one calendar's busy intervals, ascending by Start and
// pairwise non-overlapping. FindAvailableSlot relies on this ordering and
// does not sort or merge.
type Schedule []Interval

// nextStart returns the start of the interval after index i, or fallback
// when there is none.
func (s Schedule) nextStart(i int, fallback time.Time) time.Time {
	if i+1 < len(s) {
		return s[i+1].Start
	}
	return fallback
}

// Sorted reports whether s satisfies the ordering FindAvailableSlot expects.
func (s Schedule) Sorted() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Start.Before(s[i-1].End) {
			return false
		}
	}
	for _, iv := range s {
		if iv.End.Before(iv.Start) {
			return false
		}
	}
	return true
}

// Window bounds the search. No slot may extend past End.
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Unix builds an Interval from epoch seconds, the form free/busy APIs use.
func Unix(start, end int64) Interval {
	return Interval{Start: time.Unix(start, 0), End: time.Unix(end, 0)}
}

// Normalize returns s sorted by Start with overlapping or touching
// intervals merged, so it satisfies Sorted. Inverted intervals are dropped.
func Normalize(s Schedule) Schedule {
	out := make(Schedule, 0, len(s))
	for _, iv := range s {
		if iv.End.Before(iv.Start) {
			continue
		}
		out = append(out, iv)
	}
	slices.SortFunc(out, func(x, y Interval) int {
		return x.Start.Compare(y.Start)
	})

	merged := out[:0]
	for _, iv := range out {
		if n := len(merged); n > 0 && !iv.Start.After(merged[n-1].End) {
			if iv.End.After(merged[n-1].End) {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
