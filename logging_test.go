package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLogging_Rotates(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "circounter.log")
	if err := os.WriteFile(path, []byte("previous run\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := setupLogging(path)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	log.Print("current run")
	f.Close()

	old, err := os.ReadFile(path + ".1")
	if err != nil || string(old) != "previous run\n" {
		t.Fatalf("backup = %q, %v", old, err)
	}
	cur, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(cur), "current run") {
		t.Fatalf("log = %q, %v", cur, err)
	}
}

func TestSetupLogging_Stderr(t *testing.T) {
	for _, p := range []string{"", "-"} {
		f, err := setupLogging(p)
		if err != nil || f != nil {
			t.Fatalf("setupLogging(%q) = %v, %v", p, f, err)
		}
	}
}
