package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mzielinski/habitloop/internal/auth"
	"github.com/mzielinski/habitloop/internal/database"
	"github.com/mzielinski/habitloop/internal/habit"
	"github.com/mzielinski/habitloop/internal/model"
	"github.com/mzielinski/habitloop/internal/store"
	"github.com/mzielinski/habitloop/internal/websocket"
)

// Saturday 2025-06-14, mid-afternoon.
var fixedNow = time.Date(2025, time.June, 14, 15, 30, 0, 0, time.UTC)

type fixture struct {
	db          *sql.DB
	users       *store.UserStore
	habits      *store.HabitStore
	completions *store.CompletionStore
	tracker     *habit.Tracker
	hub         *websocket.Hub
	tokens      *auth.Tokens
	auth        *AuthHandler
	habit       *HabitHandler
	user        *model.User
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	logger := discardLogger()
	f := &fixture{
		db:          db,
		users:       store.NewUserStore(db),
		habits:      store.NewHabitStore(db),
		completions: store.NewCompletionStore(db),
		hub:         websocket.NewHub(logger),
	}
	f.tracker = habit.NewTracker(f.habits, f.completions, func() time.Time { return fixedNow }, logger)

	f.tokens, err = auth.NewTokens("test-secret-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	f.auth = NewAuthHandler(f.users, f.tokens, logger)
	f.habit = NewHabitHandler(f.habits, f.tracker, f.hub, logger)

	hash, err := auth.HashPassword("sekret1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	f.user, err = f.users.Create("anna@example.com", "Anna", hash)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return f
}

// request builds an authenticated request with an optional JSON body and
// optional {id} path value, simulating what the router and auth middleware
// would set up.
func (f *fixture) request(t *testing.T, method, target, id string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(auth.WithUserID(req.Context(), f.user.ID))
	if id != "" {
		req.SetPathValue("id", id)
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
