package database

import (
	"path/filepath"
	"testing"
)

func TestOpenRunsMigrations(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv'`).Scan(&name)
	if err != nil {
		t.Fatalf("kv table missing: %v", err)
	}
}

func TestOpenFileTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("open first: %v", err)
	}
	defer first.Close()

	if _, err := first.Exec(`INSERT INTO kv (key, value) VALUES ('k', 'v')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// A second handle re-runs migrations as a no-op and sees the row.
	second, err := Open(path)
	if err != nil {
		t.Fatalf("open second: %v", err)
	}
	defer second.Close()

	var value string
	if err := second.QueryRow(`SELECT value FROM kv WHERE key = 'k'`).Scan(&value); err != nil {
		t.Fatalf("select: %v", err)
	}
	if value != "v" {
		t.Errorf("value = %q, want %q", value, "v")
	}
}
