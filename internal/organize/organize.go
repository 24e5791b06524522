// Package organize coordinates classification, collision handling and the
// actual moves for a directory pass.
package organize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"shelf/internal/category"
	"shelf/internal/events"
	"shelf/internal/relocate"
	"shelf/internal/walker"
)

// Request describes one organize pass. Fields are read at the start of Run
// and never mutated.
type Request struct {
	Dir       string
	DryRun    bool
	Recursive bool
}

// Move records one successful (or simulated) relocation.
type Move struct {
	Dir       string
	Name      string
	Category  string
	Dest      string
	Simulated bool
}

// Stats tallies what a pass did. Category counts include simulated moves in
// dry-run mode; Skipped counts files whose relocation failed.
type Stats struct {
	Categories map[string]int
	Total      int
	Skipped    int
	Moves      []Move
}

func newStats() *Stats {
	return &Stats{Categories: make(map[string]int)}
}

// Merge folds other into s key by key.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	for name, n := range other.Categories {
		s.Categories[name] += n
	}
	s.Total += other.Total
	s.Skipped += other.Skipped
	s.Moves = append(s.Moves, other.Moves...)
}

// Organizer runs organize passes against a category table.
type Organizer struct {
	table  *category.Table
	walker *walker.Walker
	sink   events.Sink
}

// New builds an Organizer. A nil table selects the built-in one; a nil sink
// discards events.
func New(table *category.Table, sink events.Sink) *Organizer {
	if table == nil {
		table = category.Default()
	}
	if sink == nil {
		sink = events.Discard{}
	}
	return &Organizer{table: table, walker: walker.New(table), sink: sink}
}

// Table returns the category table the organizer works from.
func (o *Organizer) Table() *category.Table {
	return o.table
}

// Run executes one pass over req.Dir and reports what happened. Individual
// move failures are tallied in Stats.Skipped and never stop the pass; only a
// target that cannot be enumerated or a category directory that cannot be
// created aborts the run.
func (o *Organizer) Run(req Request) (*Stats, error) {
	stats := newStats()
	events.Infof(o.sink, "%s", startMessage(req))
	if req.Recursive {
		err := o.walker.Walk(req.Dir, func(dir string, files []string) error {
			events.Infof(o.sink, "processing directory: %s", dir)
			sub, err := o.organizeDir(dir, files, req.DryRun)
			if err != nil {
				return err
			}
			stats.Merge(sub)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return stats, nil
	}
	files, err := o.walker.List(req.Dir)
	if err != nil {
		return nil, err
	}
	sub, err := o.organizeDir(req.Dir, files, req.DryRun)
	if err != nil {
		return nil, err
	}
	stats.Merge(sub)
	return stats, nil
}

func startMessage(req Request) string {
	msg := "organizing " + req.Dir
	if req.Recursive {
		msg += " recursively"
	}
	if req.DryRun {
		msg += " (dry-run)"
	}
	return msg
}

func (o *Organizer) organizeDir(dir string, files []string, dryRun bool) (*Stats, error) {
	if err := o.ensureCategoryDirs(dir, dryRun); err != nil {
		return nil, err
	}
	stats := newStats()
	for _, name := range files {
		o.organizeFile(dir, name, dryRun, stats)
	}
	return stats, nil
}

// ensureCategoryDirs creates one subdirectory per category. In dry-run mode
// missing directories are reported but never created.
func (o *Organizer) ensureCategoryDirs(dir string, dryRun bool) error {
	for _, name := range o.table.Names() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("check category directory %s: %w", name, err)
		}
		if dryRun {
			events.Infof(o.sink, "dry-run: would create category directory: %s", name)
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create category directory %s: %w", name, err)
		}
		events.Infof(o.sink, "created category directory: %s", name)
	}
	return nil
}

func (o *Organizer) organizeFile(dir, name string, dryRun bool, stats *Stats) {
	ext := category.Extension(name)
	if ext == "" {
		events.Warningf(o.sink, "no extension found for file: %s", name)
	}
	cat := o.table.Classify(ext)
	dest, err := relocate.UniquePath(filepath.Join(dir, cat, name))
	if err != nil {
		stats.Skipped++
		events.Errorf(o.sink, "failed to move %s: %v", name, err)
		return
	}
	result, err := relocate.Apply(filepath.Join(dir, name), dest, dryRun)
	if err != nil {
		stats.Skipped++
		events.Errorf(o.sink, "failed to move %s: %v", name, err)
		return
	}
	rel := filepath.Join(cat, filepath.Base(dest))
	if result == relocate.Simulated {
		events.Infof(o.sink, "dry-run: would move %s -> %s", name, rel)
	} else {
		events.Infof(o.sink, "moved %s -> %s", name, rel)
	}
	stats.Categories[cat]++
	stats.Total++
	stats.Moves = append(stats.Moves, Move{
		Dir:       dir,
		Name:      name,
		Category:  cat,
		Dest:      dest,
		Simulated: result == relocate.Simulated,
	})
}
