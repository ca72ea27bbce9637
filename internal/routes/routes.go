package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/grvbrk/ytcomments/internal/app"
	"github.com/grvbrk/ytcomments/internal/handlers"
)

func SetupRoutes(app *app.Application) *chi.Mux {
	r := chi.NewRouter()

	r.Use(httprate.LimitAll(200, time.Minute))
	r.Use(app.MiddlewareHandler.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(app.MiddlewareHandler.Security)

	r.Get("/health", handlers.HandlerHealth)

	// Browser UI
	r.Group(func(r chi.Router) {
		r.Use(app.MiddlewareHandler.Session)

		r.Get("/", app.UIHandler.HandlerIndex)
		r.Post("/search", app.UIHandler.HandlerSearchForm)
		r.Post("/videos/{id}/select", app.UIHandler.HandlerSelectForm)
		r.Get("/export", app.UIHandler.HandlerExport)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitAll(100, time.Minute))
		r.Use(app.MiddlewareHandler.Cors)
		r.Use(app.MiddlewareHandler.Session)

		r.Get("/search", app.CommentHandler.HandlerSearch)
		r.Post("/videos/{id}/comments", app.CommentHandler.HandlerSelectVideo)
		r.Get("/state", app.CommentHandler.HandlerGetState)
		r.Get("/comments", app.CommentHandler.HandlerGetComments)
		r.Get("/export", app.CommentHandler.HandlerExport)
	})

	return r
}
