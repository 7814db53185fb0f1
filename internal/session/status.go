package session

import (
	"time"

	"github.com/neochoon/agenthud/internal/core/model"
)

// classification is the kind of the last timestamped event seen while
// replaying a log. Status is a pure function of it plus elapsed time;
// event payload content never feeds into status directly.
type classification int

const (
	classNone classification = iota
	classUser
	classTool
	classResponse
	classStop
)

// recentThreshold separates "running" from "completed": within it a
// user or tool event means the assistant is still working, while a
// finished response or an explicit stop marker means the turn is done.
const recentThreshold = 30 * time.Second

// statusFor implements the status state machine. Staleness beyond the
// session timeout is handled by Locate excluding the file, which is how
// the caller observes "idle"; by the time a log reaches here it is at
// most completed.
func statusFor(elapsed time.Duration, class classification) model.SessionStatus {
	if class == classNone {
		return model.StatusNone
	}
	if elapsed < recentThreshold {
		switch class {
		case classUser, classTool:
			return model.StatusRunning
		default:
			return model.StatusCompleted
		}
	}
	return model.StatusCompleted
}
