package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/repository"
)

// eventInput carries the validation rules of model.NewEvent.
type eventInput struct {
	Handle         string  `json:"handle" validate:"min=1,max=50"`
	Title          string  `json:"title" validate:"min=1,max=280"`
	StartTime      *string `json:"startTime" validate:"omitempty,len=13"`
	EndTime        *string `json:"endTime" validate:"omitempty,len=13"`
	ReplyToEventID *int64  `json:"replyToEventId" validate:"omitempty,gt=0"`
}

// hostInput is what the "new event" form must provide.
type hostInput struct {
	Handle    string `json:"handle" validate:"required,handle"`
	Title     string `json:"title" validate:"required,max=280"`
	StartTime string `json:"startTime" validate:"required,hourstamp"`
	EndTime   string `json:"endTime" validate:"required,hourstamp"`
}

type EventService struct {
	events repository.EventRepository
	users  repository.UserRepository
	likes  repository.LikeRepository
	logger *slog.Logger
}

func NewEventService(
	events repository.EventRepository,
	users repository.UserRepository,
	likes repository.LikeRepository,
	logger *slog.Logger,
) *EventService {
	return &EventService{
		events: events,
		users:  users,
		likes:  likes,
		logger: logger,
	}
}

// Create stores a new event or reply and returns its id.
//
// The author must be a known user and the parent, when given, a known
// event. Both are reported as validation errors.
func (s *EventService) Create(ctx context.Context, in model.NewEvent) (int64, error) {
	if err := validateStruct(eventInput(in)); err != nil {
		return 0, err
	}

	if err := s.requireUser(ctx, in.Handle); err != nil {
		return 0, err
	}
	if in.ReplyToEventID != nil {
		if err := s.requireParent(ctx, *in.ReplyToEventID); err != nil {
			return 0, err
		}
	}

	event := &model.Event{
		UserHandle:     in.Handle,
		Title:          in.Title,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		ReplyToEventID: in.ReplyToEventID,
	}
	if err := s.events.CreateEvent(ctx, event); err != nil {
		s.logger.Error("failed to create event",
			slog.String("handle", in.Handle),
			slog.String("error", err.Error()),
		)
		return 0, apperror.StorageFailed("creating event", err)
	}

	s.logger.Info("event created",
		slog.Int64("eventId", event.ID),
		slog.String("handle", event.UserHandle),
		slog.Bool("reply", event.IsReply()),
	)
	return event.ID, nil
}

// Host creates a top-level event from the web form and has its creator
// join it straight away.
func (s *EventService) Host(ctx context.Context, handle, title, start, end string) (int64, error) {
	in := hostInput{
		Handle:    handle,
		Title:     strings.TrimSpace(title),
		StartTime: strings.TrimSpace(start),
		EndTime:   strings.TrimSpace(end),
	}
	if err := validateStruct(in); err != nil {
		return 0, err
	}

	id, err := s.Create(ctx, model.NewEvent{
		Handle:    in.Handle,
		Title:     in.Title,
		StartTime: &in.StartTime,
		EndTime:   &in.EndTime,
	})
	if err != nil {
		return 0, err
	}

	if err := s.likes.CreateLike(ctx, id, in.Handle); err != nil {
		s.logger.Error("failed to join hosted event",
			slog.Int64("eventId", id),
			slog.String("handle", in.Handle),
			slog.String("error", err.Error()),
		)
		return id, apperror.StorageFailed("joining event", err)
	}
	return id, nil
}

// Reply posts title into the thread of parentID. Only users who joined the
// parent event may reply.
func (s *EventService) Reply(ctx context.Context, parentID int64, handle, title string) (int64, error) {
	if parentID <= 0 {
		return 0, apperror.ValidationFailed("replyToEventId", "replyToEventId must be a positive number")
	}
	if handle == "" {
		return 0, apperror.ValidationFailed("handle", "handle is required")
	}

	joined, err := s.likes.LikeExists(ctx, parentID, handle)
	if err != nil {
		s.logger.Error("failed to check join before reply",
			slog.Int64("eventId", parentID),
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
		return 0, apperror.StorageFailed("checking join", err)
	}
	if !joined {
		return 0, apperror.Forbidden("join the event before replying")
	}

	return s.Create(ctx, model.NewEvent{
		Handle:         handle,
		Title:          strings.TrimSpace(title),
		ReplyToEventID: &parentID,
	})
}

func (s *EventService) requireUser(ctx context.Context, handle string) error {
	_, err := s.users.GetUserByHandle(ctx, handle)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperror.ErrNotFound):
		return apperror.ValidationFailed("handle", fmt.Sprintf("no user with handle %q", handle))
	default:
		s.logger.Error("failed to look up author",
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
		return apperror.StorageFailed("looking up user", err)
	}
}

func (s *EventService) requireParent(ctx context.Context, id int64) error {
	_, err := s.events.GetEventByID(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperror.ErrNotFound):
		return apperror.ValidationFailed("replyToEventId", "no event with id "+strconv.FormatInt(id, 10))
	default:
		s.logger.Error("failed to look up parent event",
			slog.Int64("eventId", id),
			slog.String("error", err.Error()),
		)
		return apperror.StorageFailed("looking up event", err)
	}
}
