package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neochoon/agenthud/internal/core/model"
)

func newTestWatcher(t *testing.T, dir string) *SessionWatcher {
	t.Helper()
	sw, err := NewSessionWatcher(dir)
	require.NoError(t, err)
	sw.debounce = 50 * time.Millisecond
	t.Cleanup(func() { sw.Close() })
	return sw
}

func waitEvent(t *testing.T, sw *SessionWatcher) model.FileEvent {
	t.Helper()
	select {
	case ev := <-sw.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("no file event arrived")
		return model.FileEvent{}
	}
}

func TestEmitsEventForLogWrite(t *testing.T) {
	dir := t.TempDir()
	sw := newTestWatcher(t, dir)

	path := filepath.Join(dir, "s.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	ev := waitEvent(t, sw)
	assert.Equal(t, path, ev.Path)
}

func TestWriteBurstCoalesces(t *testing.T) {
	dir := t.TempDir()
	sw := newTestWatcher(t, dir)

	path := filepath.Join(dir, "s.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		_, err := f.WriteString("{}\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	waitEvent(t, sw)
	select {
	case <-sw.Events():
		t.Fatal("burst produced a second event")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestIgnoresNonLogFiles(t *testing.T) {
	dir := t.TempDir()
	sw := newTestWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case ev := <-sw.Events():
		t.Fatalf("unexpected event for %s", ev.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPicksUpNewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	sw := newTestWatcher(t, dir)

	// Create the tree one level at a time so each new directory's watch
	// is registered before the next level appears.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "s"), 0755))
	time.Sleep(100 * time.Millisecond)
	sub := filepath.Join(dir, "s", "subagents")
	require.NoError(t, os.Mkdir(sub, 0755))
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "a.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	ev := waitEvent(t, sw)
	assert.Equal(t, path, ev.Path)
}

func TestMissingDirectoryFails(t *testing.T) {
	_, err := NewSessionWatcher(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
