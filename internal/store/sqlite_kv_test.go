package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/nosso/internal/database"
)

func setupKVTestDB(t *testing.T) *SQLiteKV {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteKV(db)
}

func TestSQLiteKVGetNotFound(t *testing.T) {
	kv := setupKVTestDB(t)

	_, err := kv.Get(context.Background(), "nonexistent_key")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteKVSet(t *testing.T) {
	kv := setupKVTestDB(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "greeting", "hello"); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := kv.Get(ctx, "greeting")
	if err != nil {
		t.Fatalf("get after set: %v", err)
	}
	if val != "hello" {
		t.Errorf("greeting = %q, want %q", val, "hello")
	}

	// Overwrite existing
	if err := kv.Set(ctx, "greeting", "olá"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	val, err = kv.Get(ctx, "greeting")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if val != "olá" {
		t.Errorf("greeting = %q, want %q", val, "olá")
	}
}

func TestSQLiteKVDelete(t *testing.T) {
	kv := setupKVTestDB(t)
	ctx := context.Background()

	kv.Set(ctx, "k", "v")
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Errorf("delete missing: %v", err)
	}
}
