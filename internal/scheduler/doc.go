// Package scheduler finds mutual free time between two calendars.
//
// The search works on busy intervals only, the shape returned by a free/busy
// query, so no event details are needed. Two schedules are walked with one
// index each; at every step the gap between the later of the two current busy
// ends and the earlier of the two next busy starts is compared against the
// requested duration. The first gap that fits wins.
//
// Example usage:
//
//	window := scheduler.Window{Start: from, End: to}
//	slot, ok := scheduler.FindAvailableSlot(
//	    scheduler.Anchor(mine, window.Start),
//	    scheduler.Anchor(theirs, window.Start),
//	    30*time.Minute, window)
//	if !ok {
//	    // nobody is free long enough
//	}
package scheduler
