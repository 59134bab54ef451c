package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepress/internal/adapters/watcher"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/sitepress/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_ReportsWritesInNewDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "sass"), 0o755))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx := t.Context()
	require.NoError(t, w.Start(ctx, []string{filepath.Join(root, "src"), filepath.Join(root, "missing")}))

	events := make(chan ports.WatchEvent, 64)
	go func() {
		for ev := range w.Events() {
			events <- ev
		}
	}()

	newDir := filepath.Join(root, "src", "html")
	require.NoError(t, os.Mkdir(newDir, 0o755))
	waitFor(t, events, newDir)

	// The new directory is watched once its create event was seen.
	page := filepath.Join(newDir, "index.html")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(page, []byte("<p>hi</p>"), 0o644)
		select {
		case ev := <-events:
			return ev.Path == page
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func waitFor(t *testing.T, events <-chan ports.WatchEvent, path string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Path == path {
				return
			}
		case <-deadline:
			t.Fatalf("no event for %s", path)
		}
	}
}
