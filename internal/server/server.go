package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mzielinski/habitloop/internal/auth"
	"github.com/mzielinski/habitloop/internal/clock"
	"github.com/mzielinski/habitloop/internal/habit"
	"github.com/mzielinski/habitloop/internal/handler"
	"github.com/mzielinski/habitloop/internal/middleware"
	"github.com/mzielinski/habitloop/internal/store"
	ws "github.com/mzielinski/habitloop/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authH       *handler.AuthHandler
	habitH      *handler.HabitHandler
	tokens      *auth.Tokens
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New wires the stores, tracker and handlers together. A nil now uses the
// real clock; tests inject a fixed one.
func New(db *sql.DB, tokens *auth.Tokens, now clock.Func, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	habitStore := store.NewHabitStore(db)
	completionStore := store.NewCompletionStore(db)

	tracker := habit.NewTracker(habitStore, completionStore, now, logger.With("component", "tracker"))

	return &Server{
		db:          db,
		hub:         hub,
		authH:       handler.NewAuthHandler(userStore, tokens, logger.With("component", "auth")),
		habitH:      handler.NewHabitHandler(habitStore, tracker, hub, logger.With("component", "habit")),
		tokens:      tokens,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Habit API routes. The streaks listing is registered before the {id}
	// routes purely for readability; the mux picks the more specific
	// pattern either way.
	mux.HandleFunc("GET /api/habits", s.habitH.List)
	mux.HandleFunc("GET /api/habits/streaks", s.habitH.Streaks)
	mux.HandleFunc("POST /api/habits", s.habitH.Create)
	mux.HandleFunc("GET /api/habits/{id}", s.habitH.Get)
	mux.HandleFunc("PUT /api/habits/{id}", s.habitH.Update)
	mux.HandleFunc("DELETE /api/habits/{id}", s.habitH.Delete)
	mux.HandleFunc("POST /api/habits/{id}/complete", s.habitH.Complete)
	mux.HandleFunc("GET /api/habits/{id}/streak", s.habitH.Streak)
	mux.HandleFunc("GET /api/habits/{id}/calendar", s.habitH.Calendar)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handle(s.hub))
}
