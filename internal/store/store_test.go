package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/mzielinski/habitloop/internal/database"
	"github.com/mzielinski/habitloop/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	// A single connection keeps the in-memory database shared across all
	// statements in the test.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// setupFileTestDB opens a file-backed database for tests that exercise
// concurrent access, where separate pool connections must see the same data.
func setupFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, us *UserStore, email string) *model.User {
	t.Helper()
	u, err := us.Create(email, "Test User", "$2a$10$fakehashfakehashfakehash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createTestHabit(t *testing.T, hs *HabitStore, userID int64, name string) *model.Habit {
	t.Helper()
	h, err := hs.Create(userID, name, "", 10, "📱", "#d60036")
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
	return h
}
