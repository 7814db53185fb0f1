package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, mod time.Time, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestLocatePicksNewest(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "old.jsonl", testNow.Add(-time.Hour), 100)
	want := touch(t, dir, "new.jsonl", testNow.Add(-time.Minute), 10)

	path, ok := testEngine().Locate(dir, 5*time.Minute)
	require.True(t, ok)
	assert.Equal(t, want, path)
}

func TestLocateTieBreaksOnSize(t *testing.T) {
	dir := t.TempDir()
	mod := testNow.Add(-time.Minute)
	touch(t, dir, "small.jsonl", mod, 10)
	want := touch(t, dir, "large.jsonl", mod, 500)

	path, ok := testEngine().Locate(dir, 5*time.Minute)
	require.True(t, ok)
	assert.Equal(t, want, path)
}

func TestLocateExcludesStaleFile(t *testing.T) {
	dir := t.TempDir()
	// Six minutes old against a five-minute timeout.
	touch(t, dir, "s.jsonl", testNow.Add(-6*time.Minute), 100)

	_, ok := testEngine().Locate(dir, 5*time.Minute)
	assert.False(t, ok)

	// The log still exists, so the caller can tell idle from none.
	_, _, exists := testEngine().Newest(dir)
	assert.True(t, exists)
}

func TestLocateMissingDirectory(t *testing.T) {
	_, ok := testEngine().Locate(filepath.Join(t.TempDir(), "nope"), 5*time.Minute)
	assert.False(t, ok)
}

func TestLocateIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt", testNow, 100)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.jsonl"), 0755))

	_, ok := testEngine().Locate(dir, 5*time.Minute)
	assert.False(t, ok)
}
