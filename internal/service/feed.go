package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/repository"
)

// FeedService serves the read side: the top-level feed and event threads.
type FeedService struct {
	feed   repository.FeedRepository
	logger *slog.Logger
}

func NewFeedService(feed repository.FeedRepository, logger *slog.Logger) *FeedService {
	return &FeedService{feed: feed, logger: logger}
}

// Feed lists top-level events newest first. A non-empty search keeps only
// events whose title contains it, ignoring case.
func (s *FeedService) Feed(ctx context.Context, viewer, search string) ([]model.FeedItem, error) {
	items, err := s.feed.ListEvents(ctx, repository.EventQuery{
		Scope:  repository.ScopeTopLevel,
		Viewer: viewer,
		Search: strings.TrimSpace(search),
	})
	if err != nil {
		s.logger.Error("failed to list feed",
			slog.String("viewer", viewer),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StorageFailed("listing events", err)
	}
	return items, nil
}

// Thread returns the event and its direct replies as seen by viewer.
func (s *FeedService) Thread(ctx context.Context, eventID int64, viewer string) (*model.Thread, error) {
	if eventID <= 0 {
		return nil, apperror.ValidationFailed("id", "id must be a positive number")
	}

	parent, err := s.feed.ListEvents(ctx, repository.EventQuery{
		Scope:   repository.ScopeSingle,
		EventID: eventID,
		Viewer:  viewer,
	})
	if err != nil {
		s.logger.Error("failed to load event",
			slog.Int64("eventId", eventID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StorageFailed("loading event", err)
	}
	if len(parent) == 0 {
		return nil, apperror.NotFound("event", strconv.FormatInt(eventID, 10))
	}

	replies, err := s.feed.ListEvents(ctx, repository.EventQuery{
		Scope:   repository.ScopeReplies,
		EventID: eventID,
		Viewer:  viewer,
	})
	if err != nil {
		s.logger.Error("failed to load replies",
			slog.Int64("eventId", eventID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StorageFailed("loading replies", err)
	}

	return &model.Thread{Event: parent[0], Replies: replies}, nil
}
