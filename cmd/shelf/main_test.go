package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelf/internal/config"
	"shelf/internal/journal"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	target     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[paths]\nlog_dir = %q\n", cfgVal.Paths.LogDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		cfg:        &cfgVal,
		configPath: configPath,
		target:     filepath.Join(base, "inbox"),
	}
}

func (env *cliTestEnv) seedTarget(t *testing.T, names ...string) {
	t.Helper()
	if err := os.MkdirAll(env.target, 0o755); err != nil {
		t.Fatalf("mkdir target: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(env.target, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func (env *cliTestEnv) openJournal(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(env.cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestCLIOrganizeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedTarget(t, "photo.jpg", "report.pdf", "noext")

	out, _, err := runCLI(t, []string{"organize", env.target}, env.configPath)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	requireContains(t, out, "Images")
	requireContains(t, out, "Moved 3 files")

	if _, err := os.Stat(filepath.Join(env.target, "Images", "photo.jpg")); err != nil {
		t.Fatalf("expected photo.jpg in Images: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.target, "Documents", "report.pdf")); err != nil {
		t.Fatalf("expected report.pdf in Documents: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.target, "Others", "noext")); err != nil {
		t.Fatalf("expected noext in Others: %v", err)
	}

	store := env.openJournal(t)
	run, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if run == nil {
		t.Fatal("expected organize run to be journaled")
	}
	if run.Total != 3 || run.Target != env.target {
		t.Fatalf("unexpected journaled run: %#v", run)
	}
}

func TestCLIOrganizeDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedTarget(t, "photo.jpg")

	out, _, err := runCLI(t, []string{"organize", env.target, "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("organize --dry-run: %v", err)
	}
	requireContains(t, out, "Would move 1 files")
	if strings.Contains(out, "Category") {
		t.Fatalf("expected no category breakdown in dry-run output, got:\n%s", out)
	}

	if _, err := os.Stat(filepath.Join(env.target, "photo.jpg")); err != nil {
		t.Fatalf("expected photo.jpg untouched: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.target, "Images")); !os.IsNotExist(err) {
		t.Fatalf("expected no Images directory, stat err: %v", err)
	}

	store := env.openJournal(t)
	run, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if run != nil {
		t.Fatalf("expected dry-run to stay out of the journal, got %#v", run)
	}
}

func TestCLIOrganizeRejectsMissingTarget(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"organize", filepath.Join(env.target, "missing")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing target")
	}
	if !strings.Contains(err.Error(), "Target directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCLIHistoryAndUndo(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedTarget(t, "photo.jpg", "report.pdf")

	if _, _, err := runCLI(t, []string{"organize", env.target}, env.configPath); err != nil {
		t.Fatalf("organize: %v", err)
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, env.target)
	requireContains(t, out, "done")

	out, _, err = runCLI(t, []string{"undo"}, env.configPath)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	requireContains(t, out, "Restored 2 files")

	if _, err := os.Stat(filepath.Join(env.target, "photo.jpg")); err != nil {
		t.Fatalf("expected photo.jpg restored: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.target, "Images", "photo.jpg")); !os.IsNotExist(err) {
		t.Fatalf("expected Images/photo.jpg gone, stat err: %v", err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history after undo: %v", err)
	}
	requireContains(t, out, "reverted")

	if _, _, err := runCLI(t, []string{"undo"}, env.configPath); err == nil {
		t.Fatal("expected second undo to fail with nothing left")
	}
}

func TestCLIUndoDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedTarget(t, "photo.jpg")

	if _, _, err := runCLI(t, []string{"organize", env.target}, env.configPath); err != nil {
		t.Fatalf("organize: %v", err)
	}

	out, _, err := runCLI(t, []string{"undo", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("undo --dry-run: %v", err)
	}
	requireContains(t, out, "Would restore 1 files")

	if _, err := os.Stat(filepath.Join(env.target, "Images", "photo.jpg")); err != nil {
		t.Fatalf("expected dry-run to leave Images/photo.jpg: %v", err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "done")
}

func TestCLICategoriesCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"categories"}, env.configPath)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	requireContains(t, out, "Images")
	requireContains(t, out, "jpg")
	requireContains(t, out, "(everything else)")
}

func TestCLILogCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}
	logPath := filepath.Join(env.cfg.Paths.LogDir, "shelf.log")
	if err := os.WriteFile(logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}

	out, _, err := runCLI(t, []string{"log", "--lines", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	requireContains(t, out, "second")
	requireContains(t, out, "third")
	if strings.Contains(out, "first") {
		t.Fatalf("expected only the last two lines, got:\n%s", out)
	}
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Categories: 10")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected init to refuse overwriting existing file")
	}
}
