package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/nosso/internal/config"
	"github.com/dukerupert/nosso/internal/database"
	"github.com/dukerupert/nosso/internal/engine"
	"github.com/dukerupert/nosso/internal/model"
	"github.com/dukerupert/nosso/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "nosso.db")
	cfg.BackupPassphrase = "pw"
	return cfg
}

func seedCouple(t *testing.T, cfg *config.Config) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	e := engine.New(store.NewBlobStore(store.NewSQLiteKV(db), cfg.DataKey, cfg.VersionKey, slog.Default()), nil, slog.Default())
	if _, err := e.Register(ctx, engine.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "p", Color: model.ColorPink}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := e.CreateCouple(ctx); err != nil {
		t.Fatalf("create couple: %v", err)
	}
}

func runCmd(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), cfg, slog.Default(), args, &out)
	return out.String(), err
}

func TestRunUsage(t *testing.T) {
	cfg := testConfig(t)
	if _, err := runCmd(t, cfg); !errors.Is(err, errUsage) {
		t.Errorf("no args: err = %v, want errUsage", err)
	}
	if _, err := runCmd(t, cfg, "frobnicate"); !errors.Is(err, errUsage) {
		t.Errorf("unknown command: err = %v, want errUsage", err)
	}
	if _, err := runCmd(t, cfg, "export"); !errors.Is(err, errUsage) {
		t.Errorf("export without file: err = %v, want errUsage", err)
	}
}

func TestRunDumpAndStats(t *testing.T) {
	cfg := testConfig(t)
	seedCouple(t, cfg)

	out, err := runCmd(t, cfg, "dump")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(out, `"email": "ana@example.com"`) {
		t.Errorf("dump missing user: %s", out)
	}

	out, err = runCmd(t, cfg, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "users\t1") || !strings.Contains(out, "couples\t1") {
		t.Errorf("unexpected stats: %s", out)
	}
	if !strings.Contains(out, "\topen\t") {
		t.Errorf("stats should show the open couple: %s", out)
	}
}

func TestRunExportImport(t *testing.T) {
	src := testConfig(t)
	seedCouple(t, src)
	file := filepath.Join(t.TempDir(), "backup.enc")

	if _, err := runCmd(t, src, "export", file); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := testConfig(t)
	if _, err := runCmd(t, dst, "import", file); err != nil {
		t.Fatalf("import: %v", err)
	}
	out, err := runCmd(t, dst, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "users\t1") {
		t.Errorf("imported store should have one user: %s", out)
	}

	dst.BackupPassphrase = "wrong"
	if _, err := runCmd(t, dst, "import", file); err == nil {
		t.Error("expected error with wrong passphrase")
	}
}

func TestRunVersion(t *testing.T) {
	cfg := testConfig(t)

	out, err := runCmd(t, cfg, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "updated") {
		t.Errorf("first run should update the marker: %q", out)
	}

	out, err = runCmd(t, cfg, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.Contains(out, "updated") {
		t.Errorf("second run should not update the marker: %q", out)
	}
}

func TestRunPushWithoutS3(t *testing.T) {
	if _, err := runCmd(t, testConfig(t), "push"); err == nil {
		t.Error("expected error without S3 configuration")
	}
}
