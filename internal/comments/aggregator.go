// Package comments collects every top-level comment of a video by walking the
// comment thread pages one after another.
package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/grvbrk/ytcomments/internal/models"
)

var ErrRepeatedPageToken = errors.New("continuation token repeated")

// PageFetcher returns one page of comments. pageToken is empty on the first
// call.
type PageFetcher func(ctx context.Context, videoID, pageToken string) (models.CommentPage, error)

// FetchAll requests pages until one arrives without a continuation token and
// returns the concatenation in fetch order. Pages are requested strictly one
// at a time. Any failure discards everything collected so far.
func FetchAll(ctx context.Context, fetch PageFetcher, videoID string) ([]models.CommentRecord, error) {
	var all []models.CommentRecord
	seen := make(map[string]struct{})
	pageToken := ""

	for pageNum := 1; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("comments page %d: %w", pageNum, err)
		}

		page, err := fetch(ctx, videoID, pageToken)
		if err != nil {
			return nil, fmt.Errorf("comments page %d: %w", pageNum, err)
		}

		all = append(all, page.Comments...)

		if page.NextPageToken == "" {
			break
		}
		if _, dup := seen[page.NextPageToken]; dup {
			return nil, fmt.Errorf("comments page %d: %w", pageNum, ErrRepeatedPageToken)
		}
		seen[page.NextPageToken] = struct{}{}
		pageToken = page.NextPageToken
	}

	if all == nil {
		all = []models.CommentRecord{}
	}
	return all, nil
}
