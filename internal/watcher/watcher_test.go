package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/audioscribe/audioscribe/internal/logger"
)

func TestWatcherPicksUpSupportedFiles(t *testing.T) {
	dir := t.TempDir()

	var (
		mu   sync.Mutex
		seen []string
	)
	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		return nil
	}

	w, err := New(dir, handler, logger.New("error"), 2)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	if err := os.WriteFile(filepath.Join(dir, "clip.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("watcher never saw the media file")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "clip.mp3" {
		t.Errorf("seen = %v, want [clip.mp3]", seen)
	}
}

func TestNewRejectsMissingDir(t *testing.T) {
	_, err := New("/definitely/not/here", func(context.Context, string) error { return nil },
		logger.New("error"), 1)
	if err == nil {
		t.Fatal("missing directory accepted")
	}
}
