package gmail

import "time"

// DefaultMaxResults bounds ListMessages when MessageQuery.MaxResults is zero.
const DefaultMaxResults = 50

// MessageQuery selects messages for ListMessages.
type MessageQuery struct {
	// AnyEmail matches messages sent from or to any of the addresses.
	AnyEmail []string
	// Query is extra Gmail search syntax ANDed with AnyEmail.
	Query      string
	MaxResults int64
}

// MessageSummary is the listing view of a message.
type MessageSummary struct {
	ID       string
	ThreadID string
	Date     time.Time
	From     string
	Subject  string
	Snippet  string
}
