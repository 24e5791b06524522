// Package walker enumerates the plain files an organize pass may touch.
package walker

import (
	"fmt"
	"os"
	"path/filepath"

	"shelf/internal/category"
)

// LogFileName is the organizer's own log file. It is never offered for
// classification, wherever it turns up.
const LogFileName = "shelf.log"

// Walker lists plain files and, in recursive mode, descends into
// subdirectories while refusing to re-enter category directories.
type Walker struct {
	table *category.Table
}

// New returns a Walker that treats table's category names as off-limits for
// recursion.
func New(table *category.Table) *Walker {
	return &Walker{table: table}
}

// List returns the names of the plain files directly inside dir, in
// directory order. Subdirectories, non-regular entries and the log file are
// omitted. An empty directory yields an empty list and no error.
func (w *Walker) List(dir string) ([]string, error) {
	files, _, err := w.contents(dir)
	return files, err
}

// Walk visits root and every nested directory depth-first, calling fn once
// per directory with that directory's plain files. Directories named after a
// category are pruned so a pass never descends into its own output; a user
// directory that happens to share a category name is skipped the same way.
// The root itself is always visited.
func (w *Walker) Walk(root string, fn func(dir string, files []string) error) error {
	files, subdirs, err := w.contents(root)
	if err != nil {
		return err
	}
	return w.walk(root, files, subdirs, fn)
}

func (w *Walker) walk(dir string, files, subdirs []string, fn func(dir string, files []string) error) error {
	if err := fn(dir, files); err != nil {
		return err
	}
	for _, sub := range subdirs {
		path := filepath.Join(dir, sub)
		subFiles, nested, err := w.contents(path)
		if err != nil {
			// The subtree vanished or became unreadable mid-walk; skip it.
			continue
		}
		if err := w.walk(path, subFiles, nested, fn); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) contents(dir string) (files, subdirs []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read directory: %w", err)
	}
	files = make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if !w.table.IsCategory(name) {
				subdirs = append(subdirs, name)
			}
			continue
		}
		if name == LogFileName {
			continue
		}
		info, statErr := os.Stat(filepath.Join(dir, name))
		if statErr != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, name)
	}
	return files, subdirs, nil
}
