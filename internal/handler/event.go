package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/session"
)

type eventCreator interface {
	Create(ctx context.Context, in model.NewEvent) (int64, error)
}

type feedReader interface {
	Feed(ctx context.Context, viewer, search string) ([]model.FeedItem, error)
	Thread(ctx context.Context, eventID int64, viewer string) (*model.Thread, error)
}

// EventHandler serves the JSON event endpoints.
type EventHandler struct {
	events eventCreator
	feed   feedReader
	logger *slog.Logger
}

func NewEventHandler(events eventCreator, feed feedReader, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, feed: feed, logger: logger}
}

// HandleCreate posts a new event or reply.
//
// HTTP: POST /api/tweets
// REQUEST BODY: {"handle":"alice","title":"Party","startTime":"2024-01-01 10",
// "endTime":"2024-01-01 12"}; replies send "replyToEventId" instead of times.
// RESPONSE: {"eventId": 7}
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.NewEvent
	if err := decodeJSON(r, &in); err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyBody
		}
		writeError(w, r, h.logger, err)
		return
	}

	id, err := h.events.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"eventId": id})
}

// HandleList returns the top-level feed. HTTP: GET /api/events?handle=&q=
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.feed.Feed(r.Context(), viewerHandle(r), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleGet returns one event with its replies. HTTP: GET /api/events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, h.logger, apperror.ValidationFailed("id", "id must be a number"))
		return
	}

	thread, err := h.feed.Thread(r.Context(), id, viewerHandle(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

// viewerHandle picks the handle whose likes mark LikedByViewer: the
// "handle" query parameter, else the session viewer, else anonymous.
func viewerHandle(r *http.Request) string {
	if h := r.URL.Query().Get("handle"); h != "" {
		return h
	}
	if v, ok := session.ViewerFromContext(r.Context()); ok {
		return v.Handle
	}
	return ""
}
