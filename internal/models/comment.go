package models

// CommentRecord is the top-level comment of one comment thread. Replies are
// only counted, never fetched.
type CommentRecord struct {
	CommentID         string `json:"comment_id"`
	AuthorDisplayName string `json:"author_display_name"`
	PublishedAt       string `json:"published_at"`
	TextDisplay       string `json:"text_display"`
	LikeCount         int64  `json:"like_count"`
	TotalReplyCount   int64  `json:"total_reply_count"`
}

// CommentPage is one response of the comment threads endpoint. An empty
// NextPageToken marks the last page.
type CommentPage struct {
	Comments      []CommentRecord
	NextPageToken string
}

// ExportRow joins the selected video's metadata with a single comment.
type ExportRow struct {
	VideoTitle       string
	VideoPublishedAt string
	ChannelTitle     string
	Author           string
	PublishedAt      string
	Text             string
	LikeCount        int64
	ReplyCount       int64
}
