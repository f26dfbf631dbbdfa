// Package habit implements completion tracking on top of the stores:
// idempotent once-per-day recording, streak figures, and the month calendar
// view.
package habit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mzielinski/habitloop/internal/clock"
	"github.com/mzielinski/habitloop/internal/model"
	"github.com/mzielinski/habitloop/internal/store"
	"github.com/mzielinski/habitloop/internal/streak"
)

var (
	// ErrNotFound covers both a missing habit and one owned by another
	// user; callers cannot tell the two apart.
	ErrNotFound = errors.New("habit not found")
	// ErrInvalidRange rejects calendar queries for months outside 0-11 or
	// years time.Date cannot represent sensibly.
	ErrInvalidRange = errors.New("invalid calendar range")
)

// Tracker owns the completion/streak/calendar logic. All operations take
// "today" from the injected clock at call time, never from a cached value
// or a client-supplied date.
type Tracker struct {
	habits      *store.HabitStore
	completions *store.CompletionStore
	now         clock.Func
	logger      *slog.Logger
}

// NewTracker creates a Tracker. A nil now falls back to time.Now.
func NewTracker(hs *store.HabitStore, cs *store.CompletionStore, now clock.Func, logger *slog.Logger) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{habits: hs, completions: cs, now: now, logger: logger}
}

// Complete records that the habit was done today. Repeated or concurrent
// calls for the same day return the original record with alreadyExisted
// true and change nothing; the uniqueness guarantee lives in the store's
// atomic insert, not in a check here.
func (t *Tracker) Complete(habitID, userID int64, notes string) (c *model.Completion, alreadyExisted bool, err error) {
	if err := t.requireHabit(habitID, userID); err != nil {
		return nil, false, err
	}

	day := t.now.Today()
	c, inserted, err := t.completions.InsertIfAbsent(habitID, userID, day, notes)
	if err != nil {
		return nil, false, fmt.Errorf("record completion: %w", err)
	}

	if inserted {
		t.logger.Info("habit completed", "habit_id", habitID, "day", c.Date)
	} else {
		t.logger.Debug("habit already completed today", "habit_id", habitID, "day", c.Date)
	}
	return c, !inserted, nil
}

// Streak returns the streak figures for a habit over its full history.
func (t *Tracker) Streak(habitID, userID int64) (streak.Result, error) {
	if err := t.requireHabit(habitID, userID); err != nil {
		return streak.Result{}, err
	}

	days, err := t.completions.ListDays(habitID, userID)
	if err != nil {
		return streak.Result{}, fmt.Errorf("load completion history: %w", err)
	}
	return streak.Calculate(days, t.now.Today()), nil
}

// Calendar is the month view of a habit: which days of the month were
// completed, plus history-wide streak figures.
type Calendar struct {
	Completions   []string `json:"completions"`
	CurrentStreak int      `json:"currentStreak"`
	MaxStreak     int      `json:"maxStreak"`
}

// GetCalendar builds the calendar for a zero-indexed month. Streaks come
// from the entire history; the completions list is restricted to the first
// through last day of the month, ascending.
func (t *Tracker) GetCalendar(habitID, userID int64, year, month int) (*Calendar, error) {
	if !clock.ValidMonth(year, month) {
		return nil, ErrInvalidRange
	}
	if err := t.requireHabit(habitID, userID); err != nil {
		return nil, err
	}

	allDays, err := t.completions.ListDays(habitID, userID)
	if err != nil {
		return nil, fmt.Errorf("load completion history: %w", err)
	}
	result := streak.Calculate(allDays, t.now.Today())

	first, last := clock.MonthRange(year, month)
	monthDays, err := t.completions.ListDaysInRange(habitID, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("load month completions: %w", err)
	}

	dates := make([]string, len(monthDays))
	for i, d := range monthDays {
		dates[i] = clock.DateString(d)
	}

	return &Calendar{
		Completions:   dates,
		CurrentStreak: result.Current,
		MaxStreak:     result.Max,
	}, nil
}

// Status is a habit annotated with whether it was completed today.
type Status struct {
	model.Habit
	CompletedToday bool `json:"completed_today"`
}

// StreakStatus additionally carries the current streak.
type StreakStatus struct {
	model.Habit
	Streak         int  `json:"streak"`
	CompletedToday bool `json:"completed_today"`
}

// ListWithStatus returns the user's habits newest-first, each with its
// completed-today flag. The per-habit lookups are independent, so they run
// concurrently and land in the result slice by index, preserving store
// order.
func (t *Tracker) ListWithStatus(userID int64) ([]Status, error) {
	habits, err := t.habits.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	today := t.now.Today()
	out := make([]Status, len(habits))
	var g errgroup.Group
	for i, h := range habits {
		g.Go(func() error {
			done, err := t.completions.HasDay(h.ID, userID, today)
			if err != nil {
				return err
			}
			out[i] = Status{Habit: h, CompletedToday: done}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("check today's completions: %w", err)
	}
	return out, nil
}

// ListWithStreaks returns the user's habits newest-first with their current
// streaks, computed concurrently per habit over each habit's full history.
func (t *Tracker) ListWithStreaks(userID int64) ([]StreakStatus, error) {
	habits, err := t.habits.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	today := t.now.Today()
	out := make([]StreakStatus, len(habits))
	var g errgroup.Group
	for i, h := range habits {
		g.Go(func() error {
			days, err := t.completions.ListDays(h.ID, userID)
			if err != nil {
				return err
			}
			result := streak.Calculate(days, today)
			out[i] = StreakStatus{
				Habit:          h,
				Streak:         result.Current,
				CompletedToday: len(days) > 0 && days[0] == today,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute streaks: %w", err)
	}
	return out, nil
}

func (t *Tracker) requireHabit(habitID, userID int64) error {
	h, err := t.habits.GetByID(habitID, userID)
	if err != nil {
		return fmt.Errorf("get habit: %w", err)
	}
	if h == nil {
		return ErrNotFound
	}
	return nil
}
