package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/grvbrk/ytcomments/internal/comments"
	"github.com/grvbrk/ytcomments/internal/export"
	"github.com/grvbrk/ytcomments/internal/models"
	"github.com/grvbrk/ytcomments/internal/store"
)

var (
	ErrBusy         = errors.New("another operation is in progress")
	ErrUnknownVideo = errors.New("video is not in the current search results")
	ErrInterrupted  = errors.New("operation was interrupted before its result was stored")
)

const releaseAttempts = 2

// YouTubeAPI is the subset of the YouTube client the service needs.
type YouTubeAPI interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	CommentThreads(ctx context.Context, videoID, pageToken string) (models.CommentPage, error)
}

// CommentService runs the search, comment aggregation and export operations
// against one session's state. At most one operation per session is in
// flight; a second start is rejected with ErrBusy.
type CommentService struct {
	API    YouTubeAPI
	States store.StateStore
	Logger *log.Logger
}

func NewCommentService(api YouTubeAPI, states store.StateStore, logger *log.Logger) *CommentService {
	return &CommentService{
		API:    api,
		States: states,
		Logger: logger,
	}
}

func (cs *CommentService) State(ctx context.Context, sessionID string) (*models.AppState, error) {
	return cs.States.Get(ctx, sessionID)
}

// Search replaces the session's video list with the first page of results for
// query. On failure the list is left empty.
func (cs *CommentService) Search(ctx context.Context, sessionID, query string) (*models.AppState, error) {
	_, err := cs.States.Update(ctx, sessionID, func(st *models.AppState) error {
		if st.Phase.Busy() {
			return ErrBusy
		}
		st.Phase = models.PhaseSearching
		st.Query = query
		st.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	stored := false
	defer func() {
		if !stored {
			cs.release(ctx, sessionID, models.PhaseSearching)
		}
	}()

	results, searchErr := cs.API.Search(ctx, query)
	if searchErr != nil {
		cs.Logger.Printf("Error searching videos for query %q: %v", query, searchErr)
	} else {
		cs.Logger.Printf("Search for %q returned %d videos", query, len(results))
	}

	state, err := cs.States.Update(context.WithoutCancel(ctx), sessionID, func(st *models.AppState) error {
		if searchErr != nil {
			st.Videos = []models.SearchResult{}
			st.Phase = models.PhaseFailed
			st.LastError = searchErr.Error()
			return nil
		}
		st.Videos = results
		st.Phase = models.PhaseIdle
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store search results: %w", err)
	}
	stored = true

	if searchErr != nil {
		return state, fmt.Errorf("search: %w", searchErr)
	}
	return state, nil
}

// SelectVideo makes videoID the selected video, clears the previous comments
// in the same state update and then loads every comment page of the video.
func (cs *CommentService) SelectVideo(ctx context.Context, sessionID, videoID string) (*models.AppState, error) {
	_, err := cs.States.Update(ctx, sessionID, func(st *models.AppState) error {
		if st.Phase.Busy() {
			return ErrBusy
		}
		video, ok := st.FindVideo(videoID)
		if !ok {
			return ErrUnknownVideo
		}
		st.Selected = &video
		st.Comments = []models.CommentRecord{}
		st.Phase = models.PhaseFetchingComments
		st.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	stored := false
	defer func() {
		if !stored {
			cs.release(ctx, sessionID, models.PhaseFetchingComments)
		}
	}()

	records, fetchErr := comments.FetchAll(ctx, cs.API.CommentThreads, videoID)
	if fetchErr != nil {
		cs.Logger.Printf("Error fetching comments for video %s: %v", videoID, fetchErr)
	} else {
		cs.Logger.Printf("Fetched %d comments for video %s", len(records), videoID)
	}

	state, err := cs.States.Update(context.WithoutCancel(ctx), sessionID, func(st *models.AppState) error {
		if fetchErr != nil {
			st.Phase = models.PhaseFailed
			st.LastError = fetchErr.Error()
			return nil
		}
		st.Comments = records
		st.Phase = models.PhaseReady
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store comments: %w", err)
	}
	stored = true

	if fetchErr != nil {
		return state, fmt.Errorf("fetch comments: %w", fetchErr)
	}
	return state, nil
}

// release moves a session still in the busy phase to PhaseFailed. It runs
// when an operation ends without storing its result.
func (cs *CommentService) release(ctx context.Context, sessionID string, busy models.Phase) {
	ctx = context.WithoutCancel(ctx)
	fn := func(st *models.AppState) error {
		if st.Phase != busy {
			return nil
		}
		if busy == models.PhaseSearching {
			st.Videos = []models.SearchResult{}
		}
		st.Phase = models.PhaseFailed
		st.LastError = ErrInterrupted.Error()
		return nil
	}

	var err error
	for attempt := 0; attempt < releaseAttempts; attempt++ {
		if _, err = cs.States.Update(ctx, sessionID, fn); err == nil {
			return
		}
	}
	cs.Logger.Printf("Error releasing session %s from phase %s: %v", sessionID, busy, err)
}

// ExportFile is a ready-to-serve export of the session's comments.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export renders the loaded comments of the selected video. With no comments
// loaded it logs a warning and returns export.ErrNoComments.
func (cs *CommentService) Export(ctx context.Context, sessionID, format string) (*ExportFile, error) {
	contentType, err := export.ContentType(format)
	if err != nil {
		return nil, err
	}

	state, err := cs.States.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := export.Prepare(state.Selected, state.Comments)
	if errors.Is(err, export.ErrNoComments) {
		cs.Logger.Println("Warning: no comments to export")
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	cs.Logger.Printf("Exported %d comments of video %s as %s", len(rows), state.Selected.VideoID, format)

	return &ExportFile{
		Name:        export.Filename(state.Selected.Title, format),
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}
