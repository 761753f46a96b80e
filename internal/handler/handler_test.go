package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/event-forum/internal/handler"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/repository/sqlite"
	"github.com/sakif/event-forum/internal/service"
	"github.com/sakif/event-forum/internal/session"
	"github.com/sakif/event-forum/web"
)

// testEnv is the full handler stack over an in-memory database.
type testEnv struct {
	db     *sqlite.DB
	router http.Handler
}

func newTestEnv(t *testing.T, sessions *session.Manager) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := service.NewUserService(db, logger)
	events := service.NewEventService(db, db, db, logger)
	likes := service.NewLikeService(db, logger)
	feed := service.NewFeedService(db, logger)

	pages, err := handler.NewPageHandler(web.Templates(), handler.PageServices{
		Users:  users,
		Events: events,
		Likes:  likes,
		Feed:   feed,
	}, sessions, logger)
	require.NoError(t, err)

	likeHandler := handler.NewLikeHandler(likes, logger)
	eventHandler := handler.NewEventHandler(events, feed, logger)

	r := chi.NewRouter()
	r.Use(session.LoadViewer(sessions))
	r.Get("/", pages.HandleFeed)
	r.Post("/events", pages.HandleCreateEvent)
	r.Get("/event/{id}", pages.HandleEvent)
	r.Post("/event/{id}/replies", pages.HandleReply)
	r.Post("/event/{id}/join", pages.HandleJoin)
	r.Get("/api/likes", likeHandler.HandleExists)
	r.Post("/api/likes", likeHandler.HandleCreate)
	r.Delete("/api/likes", likeHandler.HandleDelete)
	r.Post("/api/tweets", eventHandler.HandleCreate)
	r.Get("/api/events", eventHandler.HandleList)
	r.Get("/api/events/{id}", eventHandler.HandleGet)

	return &testEnv{db: db, router: r}
}

// do sends a JSON (or empty) request through the router.
func (e *testEnv) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reqBody)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// postForm submits an HTML form through the router.
func (e *testEnv) postForm(target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) seedUser(t *testing.T, handle, name string) {
	t.Helper()
	require.NoError(t, e.db.UpsertUser(context.Background(), &model.User{Handle: handle, DisplayName: name}))
}

func (e *testEnv) seedEvent(t *testing.T, handle, title string, replyTo *int64) int64 {
	t.Helper()
	start, end := "2024-01-01 10", "2024-01-01 12"
	ev := &model.Event{UserHandle: handle, Title: title, ReplyToEventID: replyTo}
	if replyTo == nil {
		ev.StartTime, ev.EndTime = &start, &end
	}
	require.NoError(t, e.db.CreateEvent(context.Background(), ev))
	return ev.ID
}

func (e *testEnv) liked(t *testing.T, eventID int64, handle string) bool {
	t.Helper()
	ok, err := e.db.LikeExists(context.Background(), eventID, handle)
	require.NoError(t, err)
	return ok
}
