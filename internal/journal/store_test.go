package journal_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shelf/internal/journal"
	"shelf/internal/testsupport"
)

func TestOpenCreatesJournalInLogDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	want := filepath.Join(cfg.Paths.LogDir, "journal.db")
	if store.Path() != want {
		t.Fatalf("unexpected journal path: got %q, want %q", store.Path(), want)
	}
}

func TestRunRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.Begin(ctx, "/tmp/inbox", true)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run ID to be assigned")
	}

	moves := []journal.Move{
		{Source: "/tmp/inbox/a.jpg", Dest: "/tmp/inbox/Images/a.jpg", Category: "Images"},
		{Source: "/tmp/inbox/b.pdf", Dest: "/tmp/inbox/Documents/b.pdf", Category: "Documents"},
		{Source: "/tmp/inbox/c.jpg", Dest: "/tmp/inbox/Images/c_1.jpg", Category: "Images"},
	}
	if err := store.RecordMoves(ctx, run.ID, moves); err != nil {
		t.Fatalf("RecordMoves failed: %v", err)
	}
	if err := store.Finish(ctx, run.ID, 3, 1, 250*time.Millisecond); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	fetched, err := store.Find(ctx, run.ID)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected to find recorded run")
	}
	if fetched.Target != "/tmp/inbox" || !fetched.Recursive {
		t.Fatalf("unexpected run fields: %#v", fetched)
	}
	if fetched.Total != 3 || fetched.Skipped != 1 {
		t.Fatalf("unexpected counters: total=%d skipped=%d", fetched.Total, fetched.Skipped)
	}
	if fetched.Duration != 250*time.Millisecond {
		t.Fatalf("unexpected duration: %s", fetched.Duration)
	}
	if fetched.FinishedAt.IsZero() {
		t.Fatal("expected finished timestamp to be set")
	}

	stored, err := store.Moves(ctx, run.ID)
	if err != nil {
		t.Fatalf("Moves failed: %v", err)
	}
	if len(stored) != len(moves) {
		t.Fatalf("expected %d moves, got %d", len(moves), len(stored))
	}
	for i, mv := range stored {
		if mv.Seq != i+1 {
			t.Fatalf("move %d: expected seq %d, got %d", i, i+1, mv.Seq)
		}
		if mv.Source != moves[i].Source || mv.Dest != moves[i].Dest || mv.Category != moves[i].Category {
			t.Fatalf("move %d mismatch: %#v", i, mv)
		}
	}
}

func TestLatestSkipsRevertedRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	older, err := store.Begin(ctx, "/tmp/older", false)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := store.Finish(ctx, older.ID, 1, 0, time.Millisecond); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	newer, err := store.Begin(ctx, "/tmp/newer", false)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := store.Finish(ctx, newer.ID, 2, 0, time.Millisecond); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.ID != newer.ID {
		t.Fatalf("expected newest run, got %#v", latest)
	}

	if err := store.MarkReverted(ctx, newer.ID); err != nil {
		t.Fatalf("MarkReverted failed: %v", err)
	}
	latest, err = store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.ID != older.ID {
		t.Fatalf("expected reverted run to be skipped, got %#v", latest)
	}

	flagged, err := store.Find(ctx, newer.ID)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if flagged == nil || !flagged.Reverted {
		t.Fatalf("expected run to be marked reverted, got %#v", flagged)
	}
}

func TestLatestIgnoresUnfinishedRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	if _, err := store.Begin(ctx, "/tmp/in-flight", false); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil for journal without finished runs, got %#v", latest)
	}
}

func TestFindMatchesUniquePrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	first, err := store.Begin(ctx, "/tmp/first", false)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	second, err := store.Begin(ctx, "/tmp/second", false)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	prefix := ""
	for i := 1; i <= len(first.ID); i++ {
		if !strings.HasPrefix(second.ID, first.ID[:i]) {
			prefix = first.ID[:i]
			break
		}
	}
	if prefix == "" {
		t.Fatal("expected generated run IDs to differ")
	}

	found, err := store.Find(ctx, prefix)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found == nil || found.ID != first.ID {
		t.Fatalf("expected prefix to resolve to first run, got %#v", found)
	}

	missing, err := store.Find(ctx, "no-such-run")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown run, got %#v", missing)
	}

	if _, err := store.Find(ctx, ""); err == nil {
		t.Fatal("expected ambiguous prefix error")
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	var ids []string
	for _, target := range []string{"/tmp/one", "/tmp/two", "/tmp/three"} {
		run, err := store.Begin(ctx, target, false)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("unexpected order: got %q then %q", runs[0].Target, runs[1].Target)
	}
}

func TestRecordMovesToleratesEmptyBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.Begin(ctx, "/tmp/empty", false)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := store.RecordMoves(ctx, run.ID, nil); err != nil {
		t.Fatalf("RecordMoves failed: %v", err)
	}
	moves, err := store.Moves(ctx, run.ID)
	if err != nil {
		t.Fatalf("Moves failed: %v", err)
	}
	if len(moves) != 0 {
		t.Fatalf("expected no moves, got %d", len(moves))
	}
}

func TestJournalSurvivesReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	ctx := context.Background()
	run, err := store.Begin(ctx, "/tmp/persisted", false)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenJournal(t, cfg)
	fetched, err := reopened.Find(ctx, run.ID)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if fetched == nil || fetched.Target != "/tmp/persisted" {
		t.Fatalf("expected run to survive reopen, got %#v", fetched)
	}
}
