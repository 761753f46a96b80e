package model

import "time"

// Like marks that a user joined an event. (EventID, UserHandle) is unique.
type Like struct {
	ID         int64     `json:"id"`
	EventID    int64     `json:"eventId"`
	UserHandle string    `json:"userHandle"`
	CreatedAt  time.Time `json:"createdAt"`
}
