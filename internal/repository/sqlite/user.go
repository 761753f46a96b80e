package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// UpsertUser inserts the user, or updates the display name when the handle
// already exists. The stored row is read back into user so CreatedAt keeps
// its original value on updates.
func (db *DB) UpsertUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (handle, display_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (handle) DO UPDATE SET
			display_name = excluded.display_name,
			updated_at   = excluded.updated_at`,
		user.Handle,
		user.DisplayName,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user %s: %w", user.Handle, err)
	}

	stored, err := db.GetUserByHandle(ctx, user.Handle)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

// GetUserByHandle returns apperror.ErrNotFound if no user has that handle.
func (db *DB) GetUserByHandle(ctx context.Context, handle string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT handle, display_name, created_at, updated_at
		 FROM users WHERE handle = ?`,
		handle,
	).Scan(
		&u.Handle,
		&u.DisplayName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", handle)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", handle, err)
	}

	return &u, nil
}
