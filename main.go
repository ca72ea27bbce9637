package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grvbrk/ytcomments/internal/app"
	"github.com/grvbrk/ytcomments/internal/config"
	"github.com/grvbrk/ytcomments/internal/routes"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	app, err := app.NewApplication(cfg)
	if err != nil {
		log.Fatal("Failed to start application:", err)
	}
	defer app.Close()

	r := routes.SetupRoutes(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.RunSweeper(ctx)

	// WriteTimeout stays zero: a comment fetch spans every page of a video.
	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
	}

	go func() {
		app.Logger.Println("Server started on port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Fatal("Error starting server", err)
		}
	}()

	<-ctx.Done()
	app.Logger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Println("Server forced to shutdown:", err)
	}

	app.Logger.Println("Server stopped")
}
