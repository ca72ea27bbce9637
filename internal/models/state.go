package models

import "time"

type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseSearching        Phase = "searching"
	PhaseFetchingComments Phase = "fetching_comments"
	PhaseReady            Phase = "ready"
	PhaseFailed           Phase = "failed"
)

// Busy reports whether an operation is in flight.
func (p Phase) Busy() bool {
	return p == PhaseSearching || p == PhaseFetchingComments
}

// AppState is everything one browser session holds between requests.
// Comments always belong to Selected.
type AppState struct {
	Query     string          `json:"query"`
	Videos    []SearchResult  `json:"videos"`
	Selected  *SearchResult   `json:"selected,omitempty"`
	Comments  []CommentRecord `json:"comments"`
	Phase     Phase           `json:"phase"`
	LastError string          `json:"last_error,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewAppState() *AppState {
	return &AppState{Phase: PhaseIdle}
}

// FindVideo looks up a video in the current result list.
func (s *AppState) FindVideo(videoID string) (SearchResult, bool) {
	for _, v := range s.Videos {
		if v.VideoID == videoID {
			return v, true
		}
	}
	return SearchResult{}, false
}
