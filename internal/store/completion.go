package store

import (
	"database/sql"
	"fmt"

	"github.com/mzielinski/habitloop/internal/clock"
	"github.com/mzielinski/habitloop/internal/model"
)

// CompletionStore persists per-day habit completions. The habit_completions
// table carries a UNIQUE (habit_id, day) constraint, which is the single
// source of truth for the one-completion-per-day invariant.
type CompletionStore struct {
	db *sql.DB
}

func NewCompletionStore(db *sql.DB) *CompletionStore {
	return &CompletionStore{db: db}
}

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.Completion, error) {
	var c model.Completion
	err := scanner.Scan(&c.ID, &c.HabitID, &c.UserID, &c.Day, &c.Notes, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Date = clock.DateString(c.Day)
	return &c, nil
}

const completionCols = `id, habit_id, user_id, day, notes, created_at`

// InsertIfAbsent records a completion for (habitID, day) unless one already
// exists. The insert relies on the unique constraint with ON CONFLICT DO
// NOTHING, so concurrent attempts for the same day collapse to a single row
// without a check-then-insert race. It returns the stored record and
// whether this call created it. An existing record is never modified.
func (s *CompletionStore) InsertIfAbsent(habitID, userID int64, day int, notes string) (*model.Completion, bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO habit_completions (habit_id, user_id, day, notes) VALUES (?, ?, ?, ?)
		 ON CONFLICT (habit_id, day) DO NOTHING`,
		habitID, userID, day, notes,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert completion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	row := s.db.QueryRow(
		`SELECT `+completionCols+` FROM habit_completions WHERE habit_id = ? AND user_id = ? AND day = ?`,
		habitID, userID, day,
	)
	c, err := scanCompletion(row)
	if err != nil {
		return nil, false, fmt.Errorf("get completion: %w", err)
	}
	return c, affected > 0, nil
}

// ListDays returns every completion day for the habit, newest-first.
func (s *CompletionStore) ListDays(habitID, userID int64) ([]int, error) {
	rows, err := s.db.Query(
		`SELECT day FROM habit_completions WHERE habit_id = ? AND user_id = ? ORDER BY day DESC`,
		habitID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completion days: %w", err)
	}
	defer rows.Close()

	return collectDays(rows)
}

// ListDaysInRange returns completion days within [fromDay, toDay]
// inclusive, ascending.
func (s *CompletionStore) ListDaysInRange(habitID, userID int64, fromDay, toDay int) ([]int, error) {
	rows, err := s.db.Query(
		`SELECT day FROM habit_completions WHERE habit_id = ? AND user_id = ? AND day >= ? AND day <= ? ORDER BY day ASC`,
		habitID, userID, fromDay, toDay,
	)
	if err != nil {
		return nil, fmt.Errorf("list completion days in range: %w", err)
	}
	defer rows.Close()

	return collectDays(rows)
}

// HasDay reports whether a completion exists for the habit on the given day.
func (s *CompletionStore) HasDay(habitID, userID int64, day int) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM habit_completions WHERE habit_id = ? AND user_id = ? AND day = ?`,
		habitID, userID, day,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check completion day: %w", err)
	}
	return n > 0, nil
}

// CountForHabit returns the number of stored completions for a habit.
func (s *CompletionStore) CountForHabit(habitID, userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM habit_completions WHERE habit_id = ? AND user_id = ?`,
		habitID, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return n, nil
}

func collectDays(rows *sql.Rows) ([]int, error) {
	var days []int
	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan completion day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
