// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Every service takes repository interfaces, never *sqlite.DB, so tests
// can substitute in-memory fakes. Input is validated before any storage
// call; storage failures come back as apperror.ErrStorage.
package service

import (
	"context"
	"log/slog"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/repository"
)

// LikeInput identifies one (event, user) like pair.
type LikeInput struct {
	EventID    int64  `json:"eventId" validate:"gt=0"`
	UserHandle string `json:"userHandle" validate:"min=1,max=50"`
}

// LikeService toggles the like ("join") relation between users and events.
type LikeService struct {
	likes  repository.LikeRepository
	logger *slog.Logger
}

func NewLikeService(likes repository.LikeRepository, logger *slog.Logger) *LikeService {
	return &LikeService{likes: likes, logger: logger}
}

// Exists reports whether userHandle has liked eventID.
func (s *LikeService) Exists(ctx context.Context, in LikeInput) (bool, error) {
	if err := validateStruct(in); err != nil {
		return false, err
	}

	liked, err := s.likes.LikeExists(ctx, in.EventID, in.UserHandle)
	if err != nil {
		s.logger.Error("failed to check like",
			slog.Int64("eventId", in.EventID),
			slog.String("userHandle", in.UserHandle),
			slog.String("error", err.Error()),
		)
		return false, apperror.StorageFailed("checking like", err)
	}
	return liked, nil
}

// Create likes the event. Liking twice leaves a single like.
func (s *LikeService) Create(ctx context.Context, in LikeInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}

	if err := s.likes.CreateLike(ctx, in.EventID, in.UserHandle); err != nil {
		s.logger.Error("failed to create like",
			slog.Int64("eventId", in.EventID),
			slog.String("userHandle", in.UserHandle),
			slog.String("error", err.Error()),
		)
		return apperror.StorageFailed("creating like", err)
	}

	s.logger.Debug("like created",
		slog.Int64("eventId", in.EventID),
		slog.String("userHandle", in.UserHandle),
	)
	return nil
}

// Remove unlikes the event. Removing a like that does not exist succeeds.
func (s *LikeService) Remove(ctx context.Context, in LikeInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}

	if err := s.likes.DeleteLike(ctx, in.EventID, in.UserHandle); err != nil {
		s.logger.Error("failed to remove like",
			slog.Int64("eventId", in.EventID),
			slog.String("userHandle", in.UserHandle),
			slog.String("error", err.Error()),
		)
		return apperror.StorageFailed("removing like", err)
	}

	s.logger.Debug("like removed",
		slog.Int64("eventId", in.EventID),
		slog.String("userHandle", in.UserHandle),
	)
	return nil
}

// Toggle flips the like and returns the new state.
func (s *LikeService) Toggle(ctx context.Context, in LikeInput) (bool, error) {
	liked, err := s.Exists(ctx, in)
	if err != nil {
		return false, err
	}
	if liked {
		return false, s.Remove(ctx, in)
	}
	return true, s.Create(ctx, in)
}
