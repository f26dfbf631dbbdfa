package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mzielinski/habitloop/internal/auth"
	"github.com/mzielinski/habitloop/internal/database"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokens("test-secret-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return time.Date(2025, time.June, 14, 12, 0, 0, 0, time.UTC) }
	return New(db, tokens, now, logger).Router()
}

func doJSON(t *testing.T, router http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := setupServer(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := setupServer(t)

	targets := []string{"/api/habits", "/api/auth/me", "/api/habits/1/streak"}
	for _, target := range targets {
		rec := doJSON(t, router, http.MethodGet, target, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", target, rec.Code)
		}
	}
}

// TestHabitLifecycle runs register through calendar over the real router,
// the way a client would.
func TestHabitLifecycle(t *testing.T) {
	router := setupServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Anna",
		"email":    "anna@example.com",
		"password": "sekret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}
	var reg struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&reg); err != nil {
		t.Fatalf("decode register: %v", err)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/habits", reg.Token, map[string]any{
		"name": "Read", "duration_minutes": 20,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create habit status = %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode habit: %v", err)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/habits/1/complete", reg.Token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("complete status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodPost, "/api/habits/1/complete", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat complete status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/habits/1/streak", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("streak status = %d: %s", rec.Code, rec.Body.String())
	}
	var streakResp struct {
		Streak struct {
			Current int `json:"currentStreak"`
		} `json:"streak"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&streakResp); err != nil {
		t.Fatalf("decode streak: %v", err)
	}
	if streakResp.Streak.Current != 1 {
		t.Errorf("current streak = %d, want 1", streakResp.Streak.Current)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/habits/1/calendar?year=2025&month=5", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar status = %d: %s", rec.Code, rec.Body.String())
	}
	var cal struct {
		Completions []string `json:"completions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&cal); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	if len(cal.Completions) != 1 || cal.Completions[0] != "2025-06-14" {
		t.Errorf("completions = %v, want [2025-06-14]", cal.Completions)
	}

	// The streaks listing resolves ahead of the {id} routes.
	rec = doJSON(t, router, http.MethodGet, "/api/habits/streaks", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("streaks status = %d: %s", rec.Code, rec.Body.String())
	}
	var list []struct {
		Streak         int  `json:"streak"`
		CompletedToday bool `json:"completed_today"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode streaks: %v", err)
	}
	if len(list) != 1 || list[0].Streak != 1 || !list[0].CompletedToday {
		t.Errorf("streaks = %+v, want one habit at 1/true", list)
	}
}

func TestLoginRateLimited(t *testing.T) {
	router := setupServer(t)

	body := map[string]string{"email": "nobody@example.com", "password": "wrong"}
	var last int
	for i := 0; i < 11; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", body)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("11th login status = %d, want 429", last)
	}
}
