package session

import (
	"io/fs"
	"os"
	"time"
)

// FS is the filesystem capability the engine reads logs through. It is
// injected at construction so tests and callers control all I/O.
type FS interface {
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (osFS) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }
func (osFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// OSFS returns the real filesystem.
func OSFS() FS { return osFS{} }

// Engine derives session state from agent logs. It holds no state
// between calls; every derivation replays the log from scratch.
type Engine struct {
	fs  FS
	now func() time.Time
}

// NewEngine creates an engine over the given filesystem and clock.
// Nil arguments fall back to the real filesystem and wall clock.
func NewEngine(fsys FS, now func() time.Time) *Engine {
	if fsys == nil {
		fsys = OSFS()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{fs: fsys, now: now}
}
