package logs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func writeLog(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func TestTailPrintsLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.log")
	writeLog(t, path, "one\ntwo\nthree\nfour\n")

	var out bytes.Buffer
	if err := Tail(context.Background(), path, &out, TailOptions{Lines: 2}); err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if got, want := out.String(), "three\nfour\n"; got != want {
		t.Fatalf("unexpected tail: got %q, want %q", got, want)
	}
}

func TestTailFewerLinesThanLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.log")
	writeLog(t, path, "only\n")

	var out bytes.Buffer
	if err := Tail(context.Background(), path, &out, TailOptions{Lines: 10}); err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if got := out.String(); got != "only\n" {
		t.Fatalf("unexpected tail: %q", got)
	}
}

func TestTailMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.log")

	var out bytes.Buffer
	if err := Tail(context.Background(), path, &out, TailOptions{Lines: 5}); err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTailFollowPicksUpAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.log")
	writeLog(t, path, "first\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- Tail(ctx, path, out, TailOptions{Lines: 1, Follow: true, Poll: 10 * time.Millisecond})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "first") {
		if time.Now().After(deadline) {
			t.Fatal("initial tail never appeared")
		}
		time.Sleep(5 * time.Millisecond)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log for append: %v", err)
	}
	if _, err := f.WriteString("followed\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	for !strings.Contains(out.String(), "followed") {
		if time.Now().After(deadline) {
			t.Fatal("appended line never followed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Tail returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Tail did not stop on cancel")
	}
}
