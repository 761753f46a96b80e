package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/event-forum/internal/repository"
)

var _ repository.LikeRepository = (*DB)(nil)

// LikeExists selects a constant instead of a column; only row presence
// matters.
func (db *DB) LikeExists(ctx context.Context, eventID int64, userHandle string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM likes WHERE event_id = ? AND user_handle = ?`,
		eventID, userHandle,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("sqlite: checking like (%d, %s): %w", eventID, userHandle, err)
	}
	return true, nil
}

// CreateLike is idempotent: the UNIQUE(event_id, user_handle) conflict turns
// a repeated like into a no-op, including under concurrent callers.
func (db *DB) CreateLike(ctx context.Context, eventID int64, userHandle string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO likes (event_id, user_handle, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (event_id, user_handle) DO NOTHING`,
		eventID, userHandle, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating like (%d, %s): %w", eventID, userHandle, err)
	}
	return nil
}

// DeleteLike removes the pair if present. Deleting a missing pair is not an
// error, so RowsAffected is deliberately ignored.
func (db *DB) DeleteLike(ctx context.Context, eventID int64, userHandle string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM likes WHERE event_id = ? AND user_handle = ?`,
		eventID, userHandle,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting like (%d, %s): %w", eventID, userHandle, err)
	}
	return nil
}
