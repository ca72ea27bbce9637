package youtube

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/grvbrk/ytcomments/internal/models"
)

const (
	SearchMaxResults = 10

	searchEndpoint         = "/search"
	commentThreadsEndpoint = "/commentThreads"
	videoKind              = "youtube#video"
)

// Client talks to the YouTube Data API v3 with an API key. It never retries.
type Client struct {
	httpClient *resty.Client
	apiKey     string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	hc := &http.Client{Timeout: timeout}
	rc := resty.NewWithClient(hc)
	rc.SetBaseURL(baseURL)
	rc.SetHeader("Accept", "application/json")
	rc.SetRetryCount(0)

	return &Client{httpClient: rc, apiKey: apiKey}
}

// Search returns the first page of video results for query, at most
// SearchMaxResults entries, in provider order. An empty query is sent as is.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	var out searchListResponse
	var apiErr errorResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"q":          query,
			"type":       "video",
			"maxResults": strconv.Itoa(SearchMaxResults),
			"key":        c.apiKey,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Get(searchEndpoint)
	if err != nil {
		return nil, &TransportError{Endpoint: searchEndpoint, Err: err}
	}
	if resp.IsError() {
		return nil, newAPIError(searchEndpoint, resp.StatusCode(), &apiErr, resp.String())
	}

	results := make([]models.SearchResult, 0, len(out.Items))
	for _, item := range out.Items {
		if item.ID.Kind != "" && item.ID.Kind != videoKind {
			continue
		}
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, models.SearchResult{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		})
		if len(results) == SearchMaxResults {
			break
		}
	}

	return results, nil
}

// CommentThreads fetches one page of comment threads for videoID. pageToken
// is omitted from the request when empty.
func (c *Client) CommentThreads(ctx context.Context, videoID, pageToken string) (models.CommentPage, error) {
	var out commentThreadListResponse
	var apiErr errorResponse

	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":    "snippet",
			"videoId": videoID,
			"key":     c.apiKey,
		}).
		SetResult(&out).
		SetError(&apiErr)
	if pageToken != "" {
		req.SetQueryParam("pageToken", pageToken)
	}

	resp, err := req.Get(commentThreadsEndpoint)
	if err != nil {
		return models.CommentPage{}, &TransportError{Endpoint: commentThreadsEndpoint, Err: err}
	}
	if resp.IsError() {
		return models.CommentPage{}, newAPIError(commentThreadsEndpoint, resp.StatusCode(), &apiErr, resp.String())
	}

	page := models.CommentPage{
		Comments:      make([]models.CommentRecord, 0, len(out.Items)),
		NextPageToken: out.NextPageToken,
	}
	for _, item := range out.Items {
		top := item.Snippet.TopLevelComment
		id := item.ID
		if id == "" {
			id = top.ID
		}
		page.Comments = append(page.Comments, models.CommentRecord{
			CommentID:         id,
			AuthorDisplayName: top.Snippet.AuthorDisplayName,
			PublishedAt:       top.Snippet.PublishedAt,
			TextDisplay:       top.Snippet.TextDisplay,
			LikeCount:         top.Snippet.LikeCount,
			TotalReplyCount:   item.Snippet.TotalReplyCount,
		})
	}

	return page, nil
}
