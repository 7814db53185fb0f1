package session

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/neochoon/agenthud/internal/util"
)

// LogExt is the session log file extension.
const LogExt = ".jsonl"

// Locate picks the currently active session log in dir: the file with
// the greatest modification time, the larger file winning a tie. It
// returns ok=false when the directory is missing, holds no logs, or the
// best candidate is older than timeout.
func (e *Engine) Locate(dir string, timeout time.Duration) (string, bool) {
	best, mod, ok := e.Newest(dir)
	if !ok {
		return "", false
	}
	if e.now().Sub(mod) > timeout {
		util.LogDebugf("newest log is stale: %s (modified %s)", best, mod.Format(time.RFC3339))
		return "", false
	}
	return best, true
}

// Newest returns the most recently modified log in dir regardless of
// staleness. Callers use it to tell a finished session apart from no
// session at all.
func (e *Engine) Newest(dir string) (string, time.Time, bool) {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		// A missing session directory is the normal "no agent ran
		// here" case, not an error.
		util.LogDebugf("session dir not readable: %s - %v", dir, err)
		return "", time.Time{}, false
	}

	var (
		best     string
		bestMod  time.Time
		bestSize int64
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), LogExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			util.LogDebugf("skip log (stat failed): %s - %v", entry.Name(), err)
			continue
		}
		mod := info.ModTime()
		// On equal mtimes the larger file is the likelier live
		// continuation.
		if best == "" || mod.After(bestMod) || (mod.Equal(bestMod) && info.Size() > bestSize) {
			best = filepath.Join(dir, entry.Name())
			bestMod = mod
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", time.Time{}, false
	}
	return best, bestMod, true
}
