package testutil

import (
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/database"
)

func init() {
	goose.SetLogger(goose.NopLogger())
}

// SetupTestDB creates an in-memory SQLite database for testing.
// The schema is created by the same migrations the server runs at startup.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every connection to :memory: is a new database; keep exactly one.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		t.Fatalf("Failed to set pragma: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}
