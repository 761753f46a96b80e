package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/event-forum/internal/model"
	"github.com/sakif/event-forum/internal/repository"
)

var _ repository.FeedRepository = (*DB)(nil)

// feedQuery is the aggregate read model: events joined with their like
// counts and with the viewer's own likes, in a single statement.
//
//	likes_count: one row per event that has at least one like
//	liked:       one row per event the viewer liked (UNIQUE pair ⇒ at most one)
//
// Events without likes are missing from likes_count and events the viewer
// did not like are missing from liked; the LEFT JOINs turn both into NULL,
// which COALESCE maps to 0. The INNER JOIN on users drops events whose
// author row does not exist.
const feedQuery = `
WITH likes_count AS (
	SELECT event_id, COUNT(*) AS likes
	FROM likes
	GROUP BY event_id
),
liked AS (
	SELECT event_id, 1 AS liked
	FROM likes
	WHERE user_handle = ?
)
SELECT
	e.id,
	e.title,
	u.display_name,
	u.handle,
	COALESCE(lc.likes, 0),
	e.start_time,
	e.end_time,
	COALESCE(l.liked, 0),
	e.reply_to_event_id
FROM events e
INNER JOIN users u ON e.user_handle = u.handle
LEFT JOIN likes_count lc ON e.id = lc.event_id
LEFT JOIN liked l ON e.id = l.event_id
`

// ListEvents runs the aggregate query for the given scope, newest first.
// An empty result is returned as an empty, non-nil slice.
func (db *DB) ListEvents(ctx context.Context, q repository.EventQuery) ([]model.FeedItem, error) {
	var b strings.Builder
	b.WriteString(feedQuery)

	args := []any{q.Viewer}

	switch q.Scope {
	case repository.ScopeTopLevel:
		b.WriteString("WHERE e.reply_to_event_id IS NULL\n")
	case repository.ScopeReplies:
		b.WriteString("WHERE e.reply_to_event_id = ?\n")
		args = append(args, q.EventID)
	case repository.ScopeSingle:
		b.WriteString("WHERE e.id = ?\n")
		args = append(args, q.EventID)
	default:
		return nil, fmt.Errorf("sqlite: unknown event scope %d", q.Scope)
	}

	if q.Search != "" {
		// instr avoids LIKE's % and _ wildcards in user input.
		b.WriteString("AND instr(lower(e.title), lower(?)) > 0\n")
		args = append(args, q.Search)
	}

	b.WriteString("ORDER BY e.id DESC")

	rows, err := db.conn.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing events: %w", err)
	}
	defer rows.Close()

	items := make([]model.FeedItem, 0)
	for rows.Next() {
		var (
			item    model.FeedItem
			start   sql.NullString
			end     sql.NullString
			liked   int
			replyTo sql.NullInt64
		)
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.AuthorDisplayName,
			&item.AuthorHandle,
			&item.LikeCount,
			&start,
			&end,
			&liked,
			&replyTo,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning event row: %w", err)
		}
		item.StartTime = stringPtr(start)
		item.EndTime = stringPtr(end)
		item.LikedByViewer = liked != 0
		item.ReplyToEventID = int64Ptr(replyTo)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating events: %w", err)
	}

	return items, nil
}
