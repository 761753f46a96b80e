// Package repository declares the storage contracts consumed by the service
// layer. internal/repository/sqlite provides the implementation.
package repository

import (
	"context"

	"github.com/sakif/event-forum/internal/model"
)

// Scope selects which events the feed query returns.
type Scope int

const (
	// ScopeTopLevel selects events with no parent (the feed).
	ScopeTopLevel Scope = iota
	// ScopeReplies selects the direct replies of EventQuery.EventID.
	ScopeReplies
	// ScopeSingle selects the event EventQuery.EventID itself.
	ScopeSingle
)

// EventQuery parameterises the aggregate feed query.
type EventQuery struct {
	Scope   Scope
	EventID int64  // parent for ScopeReplies, target for ScopeSingle
	Viewer  string // handle whose likes set LikedByViewer; "" matches nothing
	Search  string // optional case-insensitive title substring
}

type UserRepository interface {
	UpsertUser(ctx context.Context, user *model.User) error
	GetUserByHandle(ctx context.Context, handle string) (*model.User, error)
}

type EventRepository interface {
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
}

type LikeRepository interface {
	LikeExists(ctx context.Context, eventID int64, userHandle string) (bool, error)
	CreateLike(ctx context.Context, eventID int64, userHandle string) error
	DeleteLike(ctx context.Context, eventID int64, userHandle string) error
}

type FeedRepository interface {
	ListEvents(ctx context.Context, q EventQuery) ([]model.FeedItem, error)
}
