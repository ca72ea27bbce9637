package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/ytcomments/internal/config"
	"github.com/grvbrk/ytcomments/internal/handlers"
	"github.com/grvbrk/ytcomments/internal/middlewares"
	"github.com/grvbrk/ytcomments/internal/services"
	"github.com/grvbrk/ytcomments/internal/store"
	"github.com/grvbrk/ytcomments/internal/youtube"
	"github.com/redis/go-redis/v9"
)

const sweepInterval = 10 * time.Minute

type Application struct {
	Logger            *log.Logger
	Config            *config.Config
	RedisClient       *redis.Client
	SessionStore      *sessions.CookieStore
	States            store.StateStore
	CommentService    *services.CommentService
	MiddlewareHandler *middlewares.MiddlewareHandler
	CommentHandler    *handlers.CommentHandler
	UIHandler         *handlers.UIHandler
}

func NewApplication(cfg *config.Config) (*Application, error) {
	logger := log.New(os.Stdout, "LOGGING: ", log.Ldate|log.Ltime)

	ytClient := youtube.NewClient(cfg.YouTubeBaseURL, cfg.YouTubeAPIKey, cfg.HTTPTimeout)

	var states store.StateStore
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		client, err := store.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Println("Error connecting to redis")
			return nil, err
		}
		logger.Println("Connected to Redis!")
		redisClient = client
		states = store.NewRedisStateStore(client, cfg.StateTTL)
	} else {
		logger.Println("REDIS_ADDR not set, keeping session state in memory")
		states = store.NewMemoryStateStore(cfg.StateTTL)
	}

	app, err := New(cfg, logger, ytClient, states)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}
	app.RedisClient = redisClient

	return app, nil
}

// New wires the application around an already built API client and state
// store.
func New(cfg *config.Config, logger *log.Logger, api services.YouTubeAPI, states store.StateStore) (*Application, error) {
	sessionStore := sessions.NewCookieStore(sessionKeys(cfg)...)
	// The UI posts plain forms with no CSRF token, so the cookie must not
	// travel on cross-site requests.
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.StateTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	commentService := services.NewCommentService(api, states, logger)

	uiHandler, err := handlers.NewUIHandler(commentService, logger)
	if err != nil {
		return nil, err
	}

	app := &Application{
		Logger:            logger,
		Config:            cfg,
		SessionStore:      sessionStore,
		States:            states,
		CommentService:    commentService,
		MiddlewareHandler: middlewares.NewMiddlewareHandler(logger, sessionStore, cfg.AllowedOrigins),
		CommentHandler:    handlers.NewCommentHandler(commentService, logger),
		UIHandler:         uiHandler,
	}

	return app, nil
}

func sessionKeys(cfg *config.Config) [][]byte {
	authKey := []byte(cfg.SessionAuthKey)
	if len(authKey) == 0 {
		authKey = securecookie.GenerateRandomKey(64)
	}

	// securecookie only accepts 16, 24 or 32 byte AES keys.
	encryptionKey := []byte(cfg.SessionEncryptionKey)
	switch len(encryptionKey) {
	case 16, 24, 32:
	default:
		encryptionKey = securecookie.GenerateRandomKey(32)
	}

	return [][]byte{authKey, encryptionKey}
}

// RunSweeper drops expired in-memory states until ctx is done. Redis expires
// keys on its own, so this is a no-op for the Redis store.
func (a *Application) RunSweeper(ctx context.Context) {
	memStore, ok := a.States.(*store.MemoryStateStore)
	if !ok {
		return
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := memStore.Sweep(); n > 0 {
				a.Logger.Printf("Dropped %d expired sessions", n)
			}
		}
	}
}

func (a *Application) Close() error {
	if a.RedisClient != nil {
		return a.RedisClient.Close()
	}
	return nil
}
