package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mzielinski/habitloop/internal/auth"
	"github.com/mzielinski/habitloop/internal/habit"
	"github.com/mzielinski/habitloop/internal/store"
	"github.com/mzielinski/habitloop/internal/websocket"
)

const (
	defaultIcon  = "📱"
	defaultColor = "#d60036"
)

type HabitHandler struct {
	habitStore *store.HabitStore
	tracker    *habit.Tracker
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewHabitHandler(hs *store.HabitStore, tracker *habit.Tracker, hub *websocket.Hub, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{habitStore: hs, tracker: tracker, hub: hub, logger: logger}
}

type habitRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	Icon            string `json:"icon"`
	Color           string `json:"color"`
}

// List returns the user's habits with today's completion flag.
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	habits, err := h.tracker.ListWithStatus(userID)
	if err != nil {
		h.logger.Error("list habits", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list habits")
		return
	}

	writeJSON(w, http.StatusOK, habits)
}

// Streaks returns the user's habits with streaks and today's completion flag.
func (h *HabitHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	habits, err := h.tracker.ListWithStreaks(userID)
	if err != nil {
		h.logger.Error("list habit streaks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list habit streaks")
		return
	}

	writeJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit ID")
		return
	}

	hb, err := h.habitStore.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get habit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get habit")
		return
	}
	if hb == nil {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}

	writeJSON(w, http.StatusOK, hb)
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.DurationMinutes < 0 {
		writeError(w, http.StatusBadRequest, "duration must not be negative")
		return
	}
	if req.Icon == "" {
		req.Icon = defaultIcon
	}
	if req.Color == "" {
		req.Color = defaultColor
	}

	hb, err := h.habitStore.Create(userID, req.Name, req.Description, req.DurationMinutes, req.Icon, req.Color)
	if err != nil {
		h.logger.Error("create habit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create habit")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("habit", "created", hb.ID, nil))
	writeJSON(w, http.StatusCreated, hb)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit ID")
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.DurationMinutes < 0 {
		writeError(w, http.StatusBadRequest, "duration must not be negative")
		return
	}

	hb, err := h.habitStore.Update(id, userID, req.Name, req.Description, req.DurationMinutes, req.Icon, req.Color)
	if err != nil {
		h.logger.Error("update habit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update habit")
		return
	}
	if hb == nil {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("habit", "updated", hb.ID, nil))
	writeJSON(w, http.StatusOK, hb)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit ID")
		return
	}

	deleted, err := h.habitStore.Delete(id, userID)
	if err != nil {
		h.logger.Error("delete habit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete habit")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("habit", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"message": "habit deleted"})
}

type completeRequest struct {
	Notes string `json:"notes"`
}

// Complete records today's completion. Repeating the call on the same day
// returns the original completion with already_completed set.
func (h *HabitHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit ID")
		return
	}

	var req completeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	completion, inserted, err := h.tracker.Complete(id, userID, req.Notes)
	if errors.Is(err, habit.ErrNotFound) {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		h.logger.Error("complete habit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record completion")
		return
	}

	if !inserted {
		writeJSON(w, http.StatusOK, map[string]any{
			"log":               completion,
			"already_completed": true,
		})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("habit", "completed", id, map[string]any{"date": completion.Date}))
	writeJSON(w, http.StatusCreated, map[string]any{"log": completion})
}

func (h *HabitHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit ID")
		return
	}

	result, err := h.tracker.Streak(id, userID)
	if errors.Is(err, habit.ErrNotFound) {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		h.logger.Error("habit streak", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute streak")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"habit_id": id,
		"streak":   result,
	})
}

// Calendar returns completions in a calendar month plus full-history streaks.
// Month is zero-indexed to match the clients.
func (h *HabitHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit ID")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year and month query parameters are required")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year and month query parameters are required")
		return
	}

	cal, err := h.tracker.GetCalendar(id, userID, year, month)
	if errors.Is(err, habit.ErrNotFound) {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if errors.Is(err, habit.ErrInvalidRange) {
		writeError(w, http.StatusBadRequest, "invalid year or month")
		return
	}
	if err != nil {
		h.logger.Error("habit calendar", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	writeJSON(w, http.StatusOK, cal)
}
