// Package handler translates HTTP requests into service calls.
//
// The JSON API (likes, events) answers with writeJSON/writeError. The HTML
// pages render the templates from package web and answer form posts with
// 303 redirects.
package handler

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/service"
	"github.com/sakif/event-forum/internal/session"
)

type userRegistrar interface {
	Register(ctx context.Context, handle, displayName string) (*model.User, error)
}

type eventPoster interface {
	Host(ctx context.Context, handle, title, start, end string) (int64, error)
	Reply(ctx context.Context, parentID int64, handle, title string) (int64, error)
}

type likeToggler interface {
	Toggle(ctx context.Context, in service.LikeInput) (bool, error)
}

// PageServices groups what the pages need.
type PageServices struct {
	Users  userRegistrar
	Events eventPoster
	Likes  likeToggler
	Feed   feedReader
}

// PageHandler renders the feed and event detail pages.
type PageHandler struct {
	feedPage  *template.Template
	eventPage *template.Template
	svc       PageServices
	sessions  *session.Manager // nil disables the viewer cookie
	logger    *slog.Logger
}

// NewPageHandler parses base.html together with each page template.
func NewPageHandler(templates fs.FS, svc PageServices, sessions *session.Manager, logger *slog.Logger) (*PageHandler, error) {
	feedPage, err := template.ParseFS(templates, "base.html", "feed.html")
	if err != nil {
		return nil, fmt.Errorf("parsing feed template: %w", err)
	}
	eventPage, err := template.ParseFS(templates, "base.html", "event.html")
	if err != nil {
		return nil, fmt.Errorf("parsing event template: %w", err)
	}

	return &PageHandler{
		feedPage:  feedPage,
		eventPage: eventPage,
		svc:       svc,
		sessions:  sessions,
		logger:    logger,
	}, nil
}

type pageData struct {
	Title  string
	Viewer session.Viewer
	Query  template.URL // username/handle carried on every link
	Notice string

	Search string
	Events []model.FeedItem

	Thread   *model.Thread
	CanReply bool
}

// HandleFeed serves GET /.
//
// When both username and handle are in the query string the user is
// registered (or renamed) and remembered in the viewer cookie.
func (h *PageHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewer(r)
	data := pageData{Title: "Forum", Search: r.URL.Query().Get("q")}
	status := http.StatusOK

	q := r.URL.Query()
	if username, handle := q.Get("username"), q.Get("handle"); username != "" && handle != "" {
		user, err := h.svc.Users.Register(r.Context(), handle, username)
		switch {
		case err == nil:
			viewer = session.Viewer{Handle: user.Handle, DisplayName: user.DisplayName}
			if err := session.SetCookie(w, h.sessions, viewer); err != nil {
				h.logger.Warn("failed to issue viewer cookie", slog.String("error", err.Error()))
			}
		case errors.Is(err, apperror.ErrValidation):
			viewer = session.Viewer{}
			data.Notice = "Handles use lowercase letters, digits, '.', '_' or '-' (up to 25); names use letters, digits and spaces."
			status = http.StatusBadRequest
		default:
			h.pageError(w, r, err)
			return
		}
	}

	events, err := h.svc.Feed.Feed(r.Context(), viewer.Handle, data.Search)
	if err != nil {
		h.pageError(w, r, err)
		return
	}

	data.Viewer = viewer
	data.Query = viewerQuery(viewer)
	data.Events = events
	h.render(w, r, h.feedPage, status, data)
}

// HandleEvent serves GET /event/{id}. Bad or unknown ids go back to the feed.
func (h *PageHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewer(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.redirectHome(w, r, viewer)
		return
	}

	thread, err := h.svc.Feed.Thread(r.Context(), id, viewer.Handle)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrValidation) {
			h.redirectHome(w, r, viewer)
			return
		}
		h.pageError(w, r, err)
		return
	}

	h.render(w, r, h.eventPage, http.StatusOK, pageData{
		Title:    thread.Event.Title,
		Viewer:   viewer,
		Query:    viewerQuery(viewer),
		Thread:   thread,
		CanReply: viewer.Handle != "" && thread.Event.LikedByViewer,
	})
}

// HandleCreateEvent serves POST /events from the "Add event" form.
func (h *PageHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewer(r)

	id, err := h.svc.Events.Host(r.Context(), viewer.Handle,
		r.PostFormValue("title"), r.PostFormValue("startTime"), r.PostFormValue("endTime"))
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.redirectEvent(w, r, id, viewer)
}

// HandleReply serves POST /event/{id}/replies.
func (h *PageHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewer(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.redirectHome(w, r, viewer)
		return
	}

	if _, err := h.svc.Events.Reply(r.Context(), id, viewer.Handle, r.PostFormValue("title")); err != nil {
		h.pageError(w, r, err)
		return
	}
	h.redirectEvent(w, r, id, viewer)
}

// HandleJoin serves POST /event/{id}/join and toggles the viewer's join.
func (h *PageHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewer(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.redirectHome(w, r, viewer)
		return
	}

	if _, err := h.svc.Likes.Toggle(r.Context(), service.LikeInput{EventID: id, UserHandle: viewer.Handle}); err != nil {
		h.pageError(w, r, err)
		return
	}

	if r.PostFormValue("from") == "feed" {
		h.redirectHome(w, r, viewer)
		return
	}
	h.redirectEvent(w, r, id, viewer)
}

// viewer resolves who is browsing: explicit handle/username parameters
// first, then the cookie.
func (h *PageHandler) viewer(r *http.Request) session.Viewer {
	if handle := r.URL.Query().Get("handle"); handle != "" {
		return session.Viewer{Handle: handle, DisplayName: r.URL.Query().Get("username")}
	}
	v, _ := session.ViewerFromContext(r.Context())
	return v
}

func viewerQuery(v session.Viewer) template.URL {
	params := url.Values{}
	if v.DisplayName != "" {
		params.Set("username", v.DisplayName)
	}
	if v.Handle != "" {
		params.Set("handle", v.Handle)
	}
	return template.URL(params.Encode())
}

func (h *PageHandler) redirectHome(w http.ResponseWriter, r *http.Request, v session.Viewer) {
	target := "/"
	if q := viewerQuery(v); q != "" {
		target += "?" + string(q)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *PageHandler) redirectEvent(w http.ResponseWriter, r *http.Request, id int64, v session.Viewer) {
	target := "/event/" + strconv.FormatInt(id, 10)
	if q := viewerQuery(v); q != "" {
		target += "?" + string(q)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// pageError answers a failed page request with a plain-text status page.
func (h *PageHandler) pageError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.LogAttrs(r.Context(), level, "page request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	http.Error(w, msg, status)
}
