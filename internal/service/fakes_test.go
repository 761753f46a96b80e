package service

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/repository"
)

// fakeStore is an in-memory stand-in for the sqlite repositories. Set one
// of the *Err fields to simulate a failing database call.
type fakeStore struct {
	mu     sync.Mutex
	users  map[string]*model.User
	events map[int64]*model.Event
	likes  map[likeKey]bool
	nextID int64

	upsertErr     error
	getUserErr    error
	createErr     error
	getEventErr   error
	likeExistsErr error
	createLikeErr error
	deleteLikeErr error
}

type likeKey struct {
	eventID int64
	handle  string
}

var (
	_ repository.UserRepository  = (*fakeStore)(nil)
	_ repository.EventRepository = (*fakeStore)(nil)
	_ repository.LikeRepository  = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[string]*model.User),
		events: make(map[int64]*model.Event),
		likes:  make(map[likeKey]bool),
	}
}

func (f *fakeStore) UpsertUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	copied := *user
	f.users[user.Handle] = &copied
	return nil
}

func (f *fakeStore) GetUserByHandle(ctx context.Context, handle string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	u, ok := f.users[handle]
	if !ok {
		return nil, apperror.NotFound("user", handle)
	}
	return u, nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, event *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	event.ID = f.nextID
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeStore) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getEventErr != nil {
		return nil, f.getEventErr
	}
	e, ok := f.events[id]
	if !ok {
		return nil, apperror.NotFound("event", strconv.FormatInt(id, 10))
	}
	return e, nil
}

func (f *fakeStore) LikeExists(ctx context.Context, eventID int64, handle string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likeExistsErr != nil {
		return false, f.likeExistsErr
	}
	return f.likes[likeKey{eventID, handle}], nil
}

func (f *fakeStore) CreateLike(ctx context.Context, eventID int64, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createLikeErr != nil {
		return f.createLikeErr
	}
	f.likes[likeKey{eventID, handle}] = true
	return nil
}

func (f *fakeStore) DeleteLike(ctx context.Context, eventID int64, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteLikeErr != nil {
		return f.deleteLikeErr
	}
	delete(f.likes, likeKey{eventID, handle})
	return nil
}

// fakeFeed returns canned rows per scope and records the queries it saw.
type fakeFeed struct {
	rows    map[repository.Scope][]model.FeedItem
	err     error
	queries []repository.EventQuery
}

func (f *fakeFeed) ListEvents(ctx context.Context, q repository.EventQuery) ([]model.FeedItem, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	rows := f.rows[q.Scope]
	if rows == nil {
		rows = []model.FeedItem{}
	}
	return rows, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string { return &s }
func idPtr(n int64) *int64    { return &n }

func seedUser(t *testing.T, store *fakeStore, handle, name string) {
	t.Helper()
	if err := store.UpsertUser(context.Background(), &model.User{Handle: handle, DisplayName: name}); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
}
