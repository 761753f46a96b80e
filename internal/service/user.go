package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/repository"
)

type registerInput struct {
	Handle      string `json:"handle" validate:"required,handle"`
	DisplayName string `json:"username" validate:"required,displayname"`
}

// UserService registers forum members as they arrive on the feed page.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Register creates the user, or updates the display name of an existing
// handle. Surrounding whitespace is ignored.
func (s *UserService) Register(ctx context.Context, handle, displayName string) (*model.User, error) {
	in := registerInput{
		Handle:      strings.TrimSpace(handle),
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user := &model.User{Handle: in.Handle, DisplayName: in.DisplayName}
	if err := s.users.UpsertUser(ctx, user); err != nil {
		s.logger.Error("failed to register user",
			slog.String("handle", in.Handle),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StorageFailed("registering user", err)
	}

	s.logger.Debug("user registered", slog.String("handle", user.Handle))
	return user, nil
}
