package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sakif/event-forum/internal/apperror"
	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/repository"
)

var _ repository.EventRepository = (*DB)(nil)

// CreateEvent inserts the event and fills in the store-assigned ID and
// CreatedAt. Optional fields are stored as NULL when nil.
func (db *DB) CreateEvent(ctx context.Context, event *model.Event) error {
	event.CreatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO events (user_handle, title, start_time, end_time, reply_to_event_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.UserHandle,
		event.Title,
		nullString(event.StartTime),
		nullString(event.EndTime),
		nullInt64(event.ReplyToEventID),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading event id: %w", err)
	}
	event.ID = id

	return nil
}

// GetEventByID returns apperror.ErrNotFound when no event has that id.
func (db *DB) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	var (
		e       model.Event
		start   sql.NullString
		end     sql.NullString
		replyTo sql.NullInt64
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_handle, title, start_time, end_time, reply_to_event_id, created_at
		 FROM events WHERE id = ?`,
		id,
	).Scan(
		&e.ID,
		&e.UserHandle,
		&e.Title,
		&start,
		&end,
		&replyTo,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("event", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting event %d: %w", id, err)
	}

	e.StartTime = stringPtr(start)
	e.EndTime = stringPtr(end)
	e.ReplyToEventID = int64Ptr(replyTo)

	return &e, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}
