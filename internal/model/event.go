package model

import "time"

// TimeLayout is the fixed 13-character format of StartTime and EndTime,
// e.g. "2024-01-01 10".
const TimeLayout = "2006-01-02 15"

// Event is a user-authored post. Top-level events carry a start and end
// time and no parent; replies carry ReplyToEventID and usually no times.
type Event struct {
	ID             int64     `json:"id"`
	UserHandle     string    `json:"userHandle"`
	Title          string    `json:"title"`
	StartTime      *string   `json:"startTime,omitempty"`
	EndTime        *string   `json:"endTime,omitempty"`
	ReplyToEventID *int64    `json:"replyToEventId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsReply reports whether the event belongs to another event's thread.
func (e *Event) IsReply() bool {
	return e.ReplyToEventID != nil
}

// NewEvent is the input to event creation.
type NewEvent struct {
	Handle         string  `json:"handle"`
	Title          string  `json:"title"`
	StartTime      *string `json:"startTime,omitempty"`
	EndTime        *string `json:"endTime,omitempty"`
	ReplyToEventID *int64  `json:"replyToEventId,omitempty"`
}
