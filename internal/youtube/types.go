package youtube

// Wire formats of the YouTube Data API v3, trimmed to the fields this service
// reads.

type searchListResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		ChannelTitle string `json:"channelTitle"`
		PublishedAt  string `json:"publishedAt"`
	} `json:"snippet"`
}

type commentThreadListResponse struct {
	Items         []commentThread `json:"items"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}

type commentThread struct {
	ID      string `json:"id"`
	Snippet struct {
		TopLevelComment struct {
			ID      string `json:"id"`
			Snippet struct {
				AuthorDisplayName string `json:"authorDisplayName"`
				PublishedAt       string `json:"publishedAt"`
				TextDisplay       string `json:"textDisplay"`
				LikeCount         int64  `json:"likeCount"`
			} `json:"snippet"`
		} `json:"topLevelComment"`
		TotalReplyCount int64 `json:"totalReplyCount"`
	} `json:"snippet"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}
