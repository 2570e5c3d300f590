// Package sink opens the daemon's file targets: the primary persisted
// log and the optional debug log.
package sink

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to the primary log's previous generation.
const BackupSuffix = ".bak"

// Open truncate-creates the file at path for log lines. With backup
// set, an existing file is first renamed to its .bak sibling, replacing
// any older backup. Files are opened once per daemon lifetime and never
// rotated again.
func Open(path string, backup bool) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sink: create dir: %w", err)
	}

	if backup {
		bak := path + BackupSuffix
		if err := os.Rename(path, bak); err == nil {
			log.Printf("sink: previous %s moved to %s", filepath.Base(path), filepath.Base(bak))
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("sink: backup rename: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("sink: open: %w", err)
	}
	return f, nil
}
