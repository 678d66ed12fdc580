package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("COUNTER_DEFAULT_CYCLE_LEN", "60")
	t.Setenv("SQLITE_FOREIGN_KEYS", "false")
	t.Setenv("COUNTER_DEFAULT_START", "not-a-number")

	cfg := Default()
	if cfg.Port != 9001 {
		t.Fatalf("Port = %d, want 9001", cfg.Port)
	}
	if cfg.CounterDefaultCycleLen != 60 {
		t.Fatalf("CounterDefaultCycleLen = %d, want 60", cfg.CounterDefaultCycleLen)
	}
	if cfg.SQLiteForeignKeys {
		t.Fatalf("expected SQLiteForeignKeys=false")
	}
	if cfg.CounterDefaultStart != 0 {
		t.Fatalf("invalid env value should fall back to default, got %d", cfg.CounterDefaultStart)
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circounter.yaml")
	content := "port: 8088\ncounter_default_start: -5\ncounter_default_cycle_len: 12\nsqlite_journal_mode: DELETE\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := &Config{LogLevel: "INFO", Port: 7790, CounterDefaultCycleLen: 100}
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 8088 || cfg.CounterDefaultStart != -5 || cfg.CounterDefaultCycleLen != 12 {
		t.Fatalf("unexpected overlay result: %+v", cfg)
	}
	if cfg.SQLiteJournalMode != "DELETE" {
		t.Fatalf("SQLiteJournalMode = %q, want DELETE", cfg.SQLiteJournalMode)
	}
	if cfg.LogLevel != "INFO" {
		t.Fatalf("keys missing from the file must be kept, got LogLevel=%q", cfg.LogLevel)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if err := LoadFile(&Config{}, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [1, 2"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := LoadFile(&Config{}, path); err == nil {
		t.Fatalf("expected parse error")
	}
}
