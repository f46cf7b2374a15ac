package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

// setupAutostart reconciles the run-at-login entry with the setting; it is
// a no-op when the entry already matches. Callers log failures.
func setupAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	entry := &autostart.App{
		Name:        "mediremind",
		DisplayName: "MediRemind",
		Exec:        []string{execPath},
	}

	switch {
	case enable && !entry.IsEnabled():
		if err := entry.Enable(); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
	case !enable && entry.IsEnabled():
		if err := entry.Disable(); err != nil {
			return fmt.Errorf("disable autostart: %w", err)
		}
	}

	return nil
}
