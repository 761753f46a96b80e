package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/repository"
)

func TestFeedService_Feed(t *testing.T) {
	feed := &fakeFeed{rows: map[repository.Scope][]model.FeedItem{
		repository.ScopeTopLevel: {{ID: 2, Title: "b"}, {ID: 1, Title: "a"}},
	}}
	svc := NewFeedService(feed, testLogger())

	items, err := svc.Feed(context.Background(), "alice", "  party ")
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Feed() returned %d items, want 2", len(items))
	}

	q := feed.queries[0]
	if q.Scope != repository.ScopeTopLevel || q.Viewer != "alice" || q.Search != "party" {
		t.Errorf("query = %+v, want top-level for alice searching %q", q, "party")
	}
}

func TestFeedService_FeedStorageError(t *testing.T) {
	svc := NewFeedService(&fakeFeed{err: errors.New("boom")}, testLogger())

	if _, err := svc.Feed(context.Background(), "", ""); !errors.Is(err, apperror.ErrStorage) {
		t.Errorf("Feed() error = %v, want ErrStorage", err)
	}
}

func TestFeedService_Thread(t *testing.T) {
	parent := model.FeedItem{ID: 7, Title: "Party", LikeCount: 2, LikedByViewer: true}
	feed := &fakeFeed{rows: map[repository.Scope][]model.FeedItem{
		repository.ScopeSingle:  {parent},
		repository.ScopeReplies: {{ID: 9, ReplyToEventID: idPtr(7)}, {ID: 8, ReplyToEventID: idPtr(7)}},
	}}
	svc := NewFeedService(feed, testLogger())

	thread, err := svc.Thread(context.Background(), 7, "bob")
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if thread.Event != parent {
		t.Errorf("Event = %+v, want %+v", thread.Event, parent)
	}
	if len(thread.Replies) != 2 {
		t.Errorf("got %d replies, want 2", len(thread.Replies))
	}
	for _, q := range feed.queries {
		if q.EventID != 7 || q.Viewer != "bob" {
			t.Errorf("query = %+v, want event 7 for bob", q)
		}
	}
}

func TestFeedService_ThreadWithoutReplies(t *testing.T) {
	feed := &fakeFeed{rows: map[repository.Scope][]model.FeedItem{
		repository.ScopeSingle: {{ID: 3}},
	}}
	svc := NewFeedService(feed, testLogger())

	thread, err := svc.Thread(context.Background(), 3, "")
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if thread.Replies == nil || len(thread.Replies) != 0 {
		t.Errorf("Replies = %v, want empty non-nil slice", thread.Replies)
	}
}

func TestFeedService_ThreadErrors(t *testing.T) {
	tests := []struct {
		name    string
		feed    *fakeFeed
		eventID int64
		want    error
	}{
		{"missing parent", &fakeFeed{}, 12, apperror.ErrNotFound},
		{"non-positive id", &fakeFeed{}, 0, apperror.ErrValidation},
		{"storage failure", &fakeFeed{err: errors.New("boom")}, 1, apperror.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFeedService(tt.feed, testLogger())

			_, err := svc.Thread(context.Background(), tt.eventID, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("Thread() error = %v, want %v", err, tt.want)
			}
		})
	}
}
