package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/service"
)

// maxBodyBytes caps API request bodies.
const maxBodyBytes = 1 << 16

var errEmptyBody = apperror.ValidationFailed("body", "request body is required")

type likeService interface {
	Exists(ctx context.Context, in service.LikeInput) (bool, error)
	Create(ctx context.Context, in service.LikeInput) error
	Remove(ctx context.Context, in service.LikeInput) error
}

// LikeHandler serves /api/likes.
type LikeHandler struct {
	likes  likeService
	logger *slog.Logger
}

func NewLikeHandler(likes likeService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{likes: likes, logger: logger}
}

// HandleExists answers whether the user liked the event.
//
// HTTP: GET /api/likes
// The pair is read from a JSON body, or from the eventId and userHandle
// query parameters when the body is empty.
func (h *LikeHandler) HandleExists(w http.ResponseWriter, r *http.Request) {
	in, err := decodeLikeInput(r, true)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	liked, err := h.likes.Exists(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// HandleCreate likes the event. HTTP: POST /api/likes
func (h *LikeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeLikeInput(r, false)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.likes.Create(r.Context(), in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w)
}

// HandleDelete unlikes the event. HTTP: DELETE /api/likes
func (h *LikeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	in, err := decodeLikeInput(r, false)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.likes.Remove(r.Context(), in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w)
}

func decodeLikeInput(r *http.Request, allowQuery bool) (service.LikeInput, error) {
	var in service.LikeInput

	err := decodeJSON(r, &in)
	if errors.Is(err, io.EOF) {
		if allowQuery {
			return likeInputFromQuery(r)
		}
		return in, errEmptyBody
	}
	return in, err
}

func likeInputFromQuery(r *http.Request) (service.LikeInput, error) {
	q := r.URL.Query()
	id, err := strconv.ParseInt(q.Get("eventId"), 10, 64)
	if err != nil {
		return service.LikeInput{}, apperror.ValidationFailed("eventId", "eventId must be a number")
	}
	return service.LikeInput{EventID: id, UserHandle: q.Get("userHandle")}, nil
}

// decodeJSON decodes exactly one JSON value from the body. An empty body
// yields io.EOF; any other decoding failure is a validation error.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return apperror.ValidationFailed("body", "malformed JSON body")
	}
	if dec.More() {
		return apperror.ValidationFailed("body", "body must hold a single JSON value")
	}
	return nil
}
