// Package calendar provides a client for the Google Calendar API.
//
// It covers what the scheduling commands need: the account's own address,
// listing events with an exact title filter, creating and deleting events
// with control over attendee notifications, and free/busy queries.
// FindMutualSlot combines a free/busy query with the scheduler package to
// find the earliest time two people are both free.
//
// Example usage:
//
//	client, err := calendar.NewClientForAccountWithProvider(ctx, "default", conf, provider)
//	if err != nil {
//	    return err
//	}
//
//	window := scheduler.Window{Start: start, End: end}
//	result, err := client.FindMutualSlot(ctx, window, 30*time.Minute, me, guest)
//	if err != nil {
//	    return err
//	}
//	if result.Found {
//	    fmt.Println("free at", result.Start)
//	}
package calendar
