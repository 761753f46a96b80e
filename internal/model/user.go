// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a forum member. Handle is the business key and never changes;
// DisplayName is overwritten whenever the user comes back with a new one.
type User struct {
	Handle      string    `json:"handle"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
