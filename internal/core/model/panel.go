package model

import "time"

// PanelSnapshot is the last stored result of a panel's provider. Seq is
// a monotonically increasing per-panel sequence number assigned when the
// snapshot is stored; overlapping fetches are resolved last-write-wins,
// and Seq makes that ordering observable.
type PanelSnapshot struct {
	Lines     []string
	Data      any
	Error     string
	Timestamp time.Time
	Seq       uint64
}

// VisualState drives per-panel refresh feedback in the title bar.
type VisualState struct {
	IsRunning     bool
	JustRefreshed bool
	JustCompleted bool
}

// FileEvent is a change notification from the session log watcher.
type FileEvent struct {
	Path      string
	Operation string
}
