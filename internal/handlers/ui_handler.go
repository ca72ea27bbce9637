package handlers

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grvbrk/ytcomments/internal/export"
	"github.com/grvbrk/ytcomments/internal/middlewares"
	"github.com/grvbrk/ytcomments/internal/models"
	"github.com/grvbrk/ytcomments/internal/services"
	"github.com/grvbrk/ytcomments/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// previewSize is how many comments the page shows; the export has all of them.
const previewSize = 15

type UIHandler struct {
	CommentService *services.CommentService
	Logger         *log.Logger
	templates      *template.Template
}

type indexPage struct {
	State   *models.AppState
	Busy    bool
	Preview []models.CommentRecord
}

func NewUIHandler(commentService *services.CommentService, logger *log.Logger) (*UIHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &UIHandler{
		CommentService: commentService,
		Logger:         logger,
		templates:      tmpl,
	}, nil
}

func (uh *UIHandler) HandlerIndex(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middlewares.GetSessionID(r)
	if !ok {
		uh.Logger.Println("No session id found in context.")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	state, err := uh.CommentService.State(r.Context(), sessionID)
	if err != nil {
		uh.Logger.Println("Error loading session state", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	preview := state.Comments
	if len(preview) > previewSize {
		preview = preview[:previewSize]
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = uh.templates.ExecuteTemplate(w, "index.html", indexPage{
		State:   state,
		Busy:    state.Phase.Busy(),
		Preview: preview,
	})
	if err != nil {
		uh.Logger.Println("Error rendering index", err)
	}
}

// HandlerSearchForm runs the search from the page form and goes back to the
// page, which shows the outcome from the session state.
func (uh *UIHandler) HandlerSearchForm(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middlewares.GetSessionID(r)
	if !ok {
		uh.Logger.Println("No session id found in context.")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		uh.Logger.Println("Error parsing search form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if _, err := uh.CommentService.Search(r.Context(), sessionID, r.PostForm.Get("q")); err != nil {
		uh.Logger.Println("Error searching videos", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (uh *UIHandler) HandlerSelectForm(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middlewares.GetSessionID(r)
	if !ok {
		uh.Logger.Println("No session id found in context.")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	videoID := chi.URLParam(r, "id")

	_, err := uh.CommentService.SelectVideo(r.Context(), sessionID, videoID)
	if errors.Is(err, services.ErrUnknownVideo) {
		http.Error(w, "Video Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		uh.Logger.Println("Error selecting video", videoID, err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandlerExport downloads the loaded comments. With nothing loaded it sends
// the user back to the page instead of an empty file.
func (uh *UIHandler) HandlerExport(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middlewares.GetSessionID(r)
	if !ok {
		uh.Logger.Println("No session id found in context.")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}

	file, err := uh.CommentService.Export(r.Context(), sessionID, format)
	if errors.Is(err, export.ErrNoComments) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		uh.Logger.Println("Error exporting comments", err)
		status, message := statusFor(err)
		http.Error(w, message, status)
		return
	}

	utils.WriteAttachment(w, file.Name, file.ContentType, file.Data)
}
