package middlewares

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/ytcomments/internal/utils"
)

type contextKey string

const SessionIDContextKey contextKey = "session_id"

const (
	SessionName    = "ytcomments_session"
	sessionIDValue = "session_id"
)

type MiddlewareHandler struct {
	Logger         *log.Logger
	SessionStore   *sessions.CookieStore
	AllowedOrigins []string
}

func NewMiddlewareHandler(logger *log.Logger, store *sessions.CookieStore, allowedOrigins []string) *MiddlewareHandler {
	return &MiddlewareHandler{
		Logger:         logger,
		SessionStore:   store,
		AllowedOrigins: allowedOrigins,
	}
}

// Session makes sure every request carries a session id cookie and puts the
// id into the request context.
func (mh *MiddlewareHandler) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		session, err := mh.SessionStore.Get(r, SessionName)
		if err != nil {
			// An undecodable cookie (e.g. keys rotated on restart) gets a fresh session.
			mh.Logger.Println("Error decoding session, starting a new one:", err)
		}

		sessionID, ok := session.Values[sessionIDValue].(string)
		if !ok || sessionID == "" {
			sessionID = uuid.NewString()
			session.Values[sessionIDValue] = sessionID

			if err := session.Save(r, w); err != nil {
				mh.Logger.Println("Error saving session:", err)
				utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
				return
			}
		}

		ctx := context.WithValue(r.Context(), SessionIDContextKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (mh *MiddlewareHandler) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && !mh.isOriginAllowed(origin) {
			mh.Logger.Printf("Origin not allowed: %s", origin)
			utils.WriteJSON(w, http.StatusForbidden, utils.Envelope{"error": "Origin not allowed"})
			return
		}

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		mh.Logger.Printf("Request: %s %s | Status: %d | Duration: %s | Origin: %s",
			r.Method, r.URL.Path, status, time.Since(start), r.Header.Get("Origin"))
	})
}

func (mh *MiddlewareHandler) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) isOriginAllowed(origin string) bool {
	for _, allowedOrigin := range mh.AllowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}
	return false
}

func GetSessionID(r *http.Request) (string, bool) {
	sessionID, ok := r.Context().Value(SessionIDContextKey).(string)
	return sessionID, ok && sessionID != ""
}
