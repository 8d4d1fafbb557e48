package testutil

import (
	"testing"

	"haptic-go/internal/database"
)

// NewTestDatabase creates a new in-memory SQLite database with migrations applied.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	db, err := database.NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	migrate(t, db)
	return db
}

// NewFileTestDatabase opens (or creates) a file-backed database at path with
// migrations applied. Several handles on one path share the same data.
func NewFileTestDatabase(t *testing.T, path string) *database.SQLiteDatabase {
	t.Helper()

	db, err := database.NewSQLiteDatabase(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	migrate(t, db)
	return db
}

func migrate(t *testing.T, db *database.SQLiteDatabase) {
	t.Helper()

	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
}
