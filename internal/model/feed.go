package model

// FeedItem is the read model shared by the feed, the thread replies and the
// event detail view.
type FeedItem struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	AuthorDisplayName string  `json:"authorDisplayName"`
	AuthorHandle      string  `json:"authorHandle"`
	LikeCount         int     `json:"likeCount"`
	StartTime         *string `json:"startTime"`
	EndTime           *string `json:"endTime"`
	LikedByViewer     bool    `json:"likedByViewer"`
	ReplyToEventID    *int64  `json:"replyToEventId,omitempty"`
}

// Thread is an event together with its direct replies, newest first.
type Thread struct {
	Event   FeedItem   `json:"event"`
	Replies []FeedItem `json:"replies"`
}
