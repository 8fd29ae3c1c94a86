package sync

import (
	"fmt"
	"io"
	"os"
)

// ensureDir creates a destination directory. Creating an existing directory
// is not an error; tasks re-ensure their directory on every run.
func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

// writeStream creates or truncates the destination file and copies the
// stream into it, returning the byte count written.
func writeStream(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path) //nolint:gosec // Destination paths are derived from sanitized names
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return n, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return n, nil
}

// exists reports whether the destination path is already present.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// countEntries returns the number of entries under a directory, or zero
// when the directory does not exist yet.
func countEntries(path string) int {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}
	return len(entries)
}
