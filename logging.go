package main

import (
	"fmt"
	"log"
	"os"
)

// setupLogging sends the standard logger to path, keeping the previous run as path.1.
// An empty path or "-" leaves logging on stderr. The returned file, if any, is closed by the caller.
func setupLogging(path string) (*os.File, error) {
	if path == "" || path == "-" {
		log.SetOutput(os.Stderr)
		return nil, nil
	}

	_ = os.Remove(path + ".1")
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".1"); err != nil {
			return nil, fmt.Errorf("failed to rotate existing log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	log.SetOutput(f)
	return f, nil
}
