package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcher_FiresOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: gitlab\n"), 0o644))

	changed := make(chan string, 4)
	w := New(path, func(p string) { changed <- p }, WithDebounce(20*time.Millisecond), WithLogger(quiet()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("platform: github\n"), 0o644))

	select {
	case p := <-changed:
		require.Equal(t, filepath.Clean(path), p)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_IgnoresSiblingsAndIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: gitlab\n"), 0o644))

	changed := make(chan string, 4)
	w := New(path, func(p string) { changed <- p }, WithDebounce(20*time.Millisecond), WithLogger(quiet()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("platform: gitlab\n"), 0o644))

	select {
	case p := <-changed:
		t.Fatalf("unexpected change for %s", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "pipegen.yaml"), func(string) {}, WithLogger(quiet()))
	require.Error(t, w.Run(context.Background()))
}
