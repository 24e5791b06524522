// Package relocate allocates unique destination paths and carries out the
// individual file moves of an organize pass.
package relocate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"shelf/internal/fileutil"
)

const maxProbeAttempts = 10000

// Result reports how a relocation concluded when no error occurred.
type Result int

const (
	// Moved means the file now lives at the destination.
	Moved Result = iota + 1
	// Simulated means dry-run was active and the filesystem was not touched.
	Simulated
)

// UniquePath returns desired when nothing exists there, otherwise the first
// "name_N.ext" variant (N counting up from 1) that does not exist yet.
// Existence is re-checked for every candidate. The probe is read-only, so it
// is safe to call in dry-run mode.
func UniquePath(desired string) (string, error) {
	if _, err := os.Stat(desired); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return desired, nil
		}
		return "", err
	}
	dir := filepath.Dir(desired)
	stem, ext := splitName(filepath.Base(desired))
	for attempt := 1; attempt <= maxProbeAttempts; attempt++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, attempt, ext))
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return candidate, nil
			}
			return "", err
		}
	}
	return "", fmt.Errorf("exhausted unique name candidates for %s", desired)
}

// splitName splits a file name into stem and dotted extension. Leading dots
// belong to the stem, so ".bashrc" splits into (".bashrc", "").
func splitName(base string) (string, string) {
	trimmed := strings.TrimLeft(base, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return base, ""
	}
	cut := len(base) - len(trimmed) + i
	return base[:cut], base[cut:]
}

// Apply moves src to dst. In dry-run mode it performs no filesystem work and
// reports Simulated. A rename that fails because src and dst live on
// different devices falls back to copy plus remove. On error the source file
// is left in place.
func Apply(src, dst string, dryRun bool) (Result, error) {
	if dryRun {
		return Simulated, nil
	}
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return Moved, nil
	}
	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := fileutil.CopyFile(src, dst); err != nil {
			return 0, fmt.Errorf("copy across devices: %w", err)
		}
		if err := os.Remove(src); err != nil {
			return 0, fmt.Errorf("remove source after copy: %w", err)
		}
		return Moved, nil
	}
	return 0, renameErr
}
