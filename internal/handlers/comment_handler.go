package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/grvbrk/ytcomments/internal/export"
	"github.com/grvbrk/ytcomments/internal/middlewares"
	"github.com/grvbrk/ytcomments/internal/services"
	"github.com/grvbrk/ytcomments/internal/utils"
)

type CommentHandler struct {
	CommentService *services.CommentService
	Logger         *log.Logger
}

func NewCommentHandler(commentService *services.CommentService, logger *log.Logger) *CommentHandler {
	return &CommentHandler{
		CommentService: commentService,
		Logger:         logger,
	}
}

func (ch *CommentHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, ok := middlewares.GetSessionID(r)
	if !ok {
		ch.Logger.Println("No session id found in context.")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return "", false
	}
	return sessionID, true
}

func (ch *CommentHandler) writeError(w http.ResponseWriter, err error) {
	status, message := statusFor(err)
	utils.WriteJSON(w, status, utils.Envelope{"message": message, "error": err.Error()})
}

// HandlerSearch runs a search. An empty q is allowed and forwarded as is.
func (ch *CommentHandler) HandlerSearch(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := ch.sessionID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")

	state, err := ch.CommentService.Search(r.Context(), sessionID, query)
	if err != nil {
		ch.Logger.Println("Error searching videos", err)
		ch.writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": state.Videos})
}

func (ch *CommentHandler) HandlerSelectVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")
	if strings.TrimSpace(videoID) == "" {
		ch.Logger.Println("Error: id parameter is missing")
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
		return
	}

	sessionID, ok := ch.sessionID(w, r)
	if !ok {
		return
	}

	state, err := ch.CommentService.SelectVideo(r.Context(), sessionID, videoID)
	if err != nil {
		ch.Logger.Println("Error selecting video", videoID, err)
		ch.writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": utils.Envelope{
		"video":    state.Selected,
		"comments": state.Comments,
		"count":    len(state.Comments),
	}})
}

func (ch *CommentHandler) HandlerGetState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := ch.sessionID(w, r)
	if !ok {
		return
	}

	state, err := ch.CommentService.State(r.Context(), sessionID)
	if err != nil {
		ch.Logger.Println("Error loading session state", err)
		ch.writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": state})
}

func (ch *CommentHandler) HandlerGetComments(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := ch.sessionID(w, r)
	if !ok {
		return
	}

	state, err := ch.CommentService.State(r.Context(), sessionID)
	if err != nil {
		ch.Logger.Println("Error loading session state", err)
		ch.writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": utils.Envelope{
		"video":    state.Selected,
		"comments": state.Comments,
		"phase":    state.Phase,
	}})
}

// HandlerExport serves the loaded comments as a download. With nothing to
// export it answers 204 and sends no file.
func (ch *CommentHandler) HandlerExport(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := ch.sessionID(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}

	file, err := ch.CommentService.Export(r.Context(), sessionID, format)
	if errors.Is(err, export.ErrNoComments) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		ch.Logger.Println("Error exporting comments", err)
		ch.writeError(w, err)
		return
	}

	utils.WriteAttachment(w, file.Name, file.ContentType, file.Data)
}
