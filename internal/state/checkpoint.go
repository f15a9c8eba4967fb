// Package state persists the last-cycle marker across restarts.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint records where the previous cycle left off.
type Checkpoint struct {
	LastCycleAt    time.Time `json:"last_cycle_at"`
	ItemsProcessed int       `json:"items_processed"`
	SignalsEmitted int64     `json:"signals_emitted"`
}

// Load reads a checkpoint. The second return is false when no checkpoint
// exists yet. A checkpoint that exists but cannot be parsed is an error:
// callers fail closed rather than guess.
func Load(path string) (Checkpoint, bool, error) {
	if path == "" {
		return Checkpoint{}, false, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Checkpoint{}, false, nil
		}
		return Checkpoint{}, false, err
	}

	var ckpt Checkpoint
	if err := json.Unmarshal(b, &ckpt); err != nil {
		return Checkpoint{}, false, fmt.Errorf("parse checkpoint %s: %w", path, err)
	}
	return ckpt, true, nil
}

// Save writes the checkpoint atomically via temp file and rename.
func Save(path string, ckpt Checkpoint) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(ckpt, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
