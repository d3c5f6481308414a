// Package fileutils implements utilities for working with files
package fileutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteAtomic writes a file by calling write on a pending file in the
// same directory as filename, which then atomically replaces filename.
// Either the previous contents of filename or the complete new
// contents are visible to readers, never a partial write. Missing
// parent directories are created.
func WriteAtomic(filename string, write func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("writeAtomic: %w", err)
	}

	f, err := renameio.NewPendingFile(filename, renameio.WithTempDir(dir),
		renameio.WithPermissions(0o644), renameio.IgnoreUmask())
	if err != nil {
		return fmt.Errorf("writeAtomic: %w", err)
	}
	defer f.Cleanup()

	if err := write(f); err != nil {
		return fmt.Errorf("writeAtomic: %w", err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("writeAtomic: %w", err)
	}
	return nil
}
