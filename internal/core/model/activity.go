package model

import "time"

// SessionStatus describes what the assistant session is doing right now.
type SessionStatus string

const (
	StatusRunning   SessionStatus = "running"
	StatusCompleted SessionStatus = "completed"
	StatusIdle      SessionStatus = "idle"
	StatusNone      SessionStatus = "none"
)

// ActivityKind classifies one line of the live feed.
type ActivityKind string

const (
	KindUser     ActivityKind = "user"
	KindTool     ActivityKind = "tool"
	KindResponse ActivityKind = "response"
)

// ActivityEntry is one line of the synthesized activity feed.
type ActivityEntry struct {
	Timestamp time.Time
	Kind      ActivityKind
	Icon      string
	Label     string
	Detail    string

	// Count is greater than 1 only when consecutive identical tool
	// invocations were collapsed into this entry.
	Count int

	// SubActivities and SubActivityCount are set only on a delegation
	// entry that was matched to a sub-log.
	SubActivities    []ActivityEntry
	SubActivityCount int
}

// SessionState is the full derived snapshot of one session log. It is
// recomputed from scratch on every derivation, never persisted.
type SessionState struct {
	Status     SessionStatus
	Activities []ActivityEntry // newest first, length <= maxActivities
	TokenCount int
	StartTime  *time.Time
	Todos      []TodoItem

	// Err carries the I/O failure that degraded this state to "no
	// session", if any.
	Err error
}

// NoSession returns the state reported when no usable log exists.
func NoSession(err error) SessionState {
	return SessionState{Status: StatusNone, Err: err}
}
