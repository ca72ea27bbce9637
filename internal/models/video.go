package models

// SearchResult is one video summary returned by a search. PublishedAt keeps
// the ISO-8601 string exactly as the API sent it.
type SearchResult struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
}
