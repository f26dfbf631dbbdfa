package store

import (
	"database/sql"
	"fmt"

	"github.com/mzielinski/habitloop/internal/model"
)

// HabitStore persists habit definitions. Every query is scoped by the
// owning user id, so a habit owned by someone else is indistinguishable
// from a habit that does not exist.
type HabitStore struct {
	db *sql.DB
}

func NewHabitStore(db *sql.DB) *HabitStore {
	return &HabitStore{db: db}
}

func scanHabit(scanner interface{ Scan(...any) error }) (*model.Habit, error) {
	var h model.Habit
	err := scanner.Scan(
		&h.ID, &h.UserID, &h.Name, &h.Description, &h.DurationMinutes,
		&h.Icon, &h.Color, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const habitCols = `id, user_id, name, description, duration_minutes, icon, color, created_at, updated_at`

func (s *HabitStore) Create(userID int64, name, description string, durationMinutes int, icon, color string) (*model.Habit, error) {
	result, err := s.db.Exec(
		`INSERT INTO habits (user_id, name, description, duration_minutes, icon, color) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, name, description, durationMinutes, icon, color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, userID)
}

func (s *HabitStore) GetByID(id, userID int64) (*model.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitCols+` FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return h, nil
}

// ListByUser returns the user's habits newest-first.
func (s *HabitStore) ListByUser(userID int64) ([]model.Habit, error) {
	rows, err := s.db.Query(
		`SELECT `+habitCols+` FROM habits WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (s *HabitStore) Update(id, userID int64, name, description string, durationMinutes int, icon, color string) (*model.Habit, error) {
	_, err := s.db.Exec(
		`UPDATE habits SET name = ?, description = ?, duration_minutes = ?, icon = ?, color = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		name, description, durationMinutes, icon, color, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return s.GetByID(id, userID)
}

// Delete removes a habit, reporting whether a row was deleted. Its
// completions go with it via the foreign key cascade.
func (s *HabitStore) Delete(id, userID int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete habit: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
