package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatch(t *testing.T, root string) (<-chan struct{}, context.CancelFunc) {
	t.Helper()
	w := New(".mat", 50*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := w.Watch(ctx, root, func(context.Context) { calls <- struct{}{} })
		assert.NoError(t, err)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register directories
	time.Sleep(100 * time.Millisecond)
	return calls, cancel
}

func waitCall(t *testing.T, calls <-chan struct{}) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_MaterialFileTriggersChange(t *testing.T) {
	root := t.TempDir()
	calls, _ := startWatch(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "wood.mat"), []byte(`<material name="wood" guid="1"/>`), 0644))
	waitCall(t, calls)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	calls, _ := startWatch(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))
	select {
	case <-calls:
		t.Fatal("non-material file should not trigger a rebuild")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	root := t.TempDir()
	calls, _ := startWatch(t, root)

	for _, name := range []string{"a.mat", "b.mat", "c.mat"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("<material/>"), 0644))
	}
	waitCall(t, calls)

	select {
	case <-calls:
		t.Fatal("burst should produce a single notification")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	calls, _ := startWatch(t, root)

	sub := filepath.Join(root, "props")
	require.NoError(t, os.Mkdir(sub, 0755))
	waitCall(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "metal.mat"), []byte("<material/>"), 0644))
	waitCall(t, calls)
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := New(".mat", 0, nil)
	err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "absent"), func(context.Context) {})
	assert.Error(t, err)
}
