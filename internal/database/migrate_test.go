package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestFreshDBGetsLatestVersion(t *testing.T) {
	db := openTestDB(t)

	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("reading version: %v", err)
	}
	if version != latestVersion() {
		t.Errorf("expected version %d, got %d", latestVersion(), version)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := db.InsertProduct("Bluetooth Headset 410", 5, 20, 7); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	// Reopening runs migrate again; data must survive.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()

	count, err := db.CountProducts()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 product after reopen, got %d", count)
	}
}

func TestLegacyDBStampedAsVersionOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Create a pre-migration database: products table exists, user_version 0.
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	_, err = conn.Exec(`CREATE TABLE products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		current_inventory INTEGER NOT NULL DEFAULT 0,
		avg_sales INTEGER NOT NULL DEFAULT 0,
		lead_time INTEGER NOT NULL DEFAULT 0,
		created_at TEXT DEFAULT (datetime('now')),
		updated_at TEXT DEFAULT (datetime('now'))
	)`)
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	conn.Close()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	defer db.Close()

	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("reading version: %v", err)
	}
	if version < 1 {
		t.Errorf("expected legacy db stamped >= 1, got %d", version)
	}
}
