package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/neochoon/agenthud/internal/core/model"
	"github.com/neochoon/agenthud/internal/session"
	"github.com/neochoon/agenthud/internal/util"
)

// Assistant surfaces the live state of the agent session: status,
// activity feed, token count, and todo list.
type Assistant struct {
	engine        *session.Engine
	dir           string
	timeout       time.Duration
	maxActivities int
	now           func() time.Time
}

// NewAssistant builds the assistant panel provider over engine. dir is
// the session log directory; timeout is how recent the newest log must
// be to count as active.
func NewAssistant(engine *session.Engine, dir string, timeout time.Duration, maxActivities int, now func() time.Time) *Assistant {
	if now == nil {
		now = time.Now
	}
	return &Assistant{
		engine:        engine,
		dir:           dir,
		timeout:       timeout,
		maxActivities: maxActivities,
		now:           now,
	}
}

func (a *Assistant) Fetch(ctx context.Context) Result {
	path, ok := a.engine.Locate(a.dir, a.timeout)
	if !ok {
		// A stale log means a session ran and went quiet; no log at
		// all means none ever did.
		state := model.SessionState{Status: model.StatusNone}
		if _, _, exists := a.engine.Newest(a.dir); exists {
			state.Status = model.StatusIdle
		}
		return Result{Lines: a.formatState(state), Data: state}
	}

	state := a.engine.DeriveState(path, a.maxActivities)
	return Result{Lines: a.formatState(state), Data: state, Err: state.Err}
}

// formatState renders a SessionState into panel body lines.
func (a *Assistant) formatState(state model.SessionState) []string {
	var lines []string

	switch state.Status {
	case model.StatusRunning:
		lines = append(lines, util.ColorGreen+"● running"+util.ColorReset)
	case model.StatusCompleted:
		lines = append(lines, util.ColorBlue+"✓ completed"+util.ColorReset)
	case model.StatusIdle:
		lines = append(lines, util.ColorGray+"○ idle"+util.ColorReset)
	default:
		lines = append(lines, util.ColorGray+"no active session"+util.ColorReset)
		return lines
	}

	meta := "tokens: " + util.FormatNumber(state.TokenCount)
	if state.StartTime != nil {
		meta += "  started " + util.FormatAgo(*state.StartTime, a.now())
	}
	lines = append(lines, meta)

	if len(state.Activities) > 0 {
		lines = append(lines, "")
		for _, act := range state.Activities {
			lines = append(lines, formatActivity(act))
			for _, sub := range act.SubActivities {
				lines = append(lines, "   ↳ "+formatActivity(sub))
			}
			if act.SubActivityCount > len(act.SubActivities) {
				lines = append(lines, fmt.Sprintf("   ↳ … %d activities total", act.SubActivityCount))
			}
		}
	}

	if len(state.Todos) > 0 {
		lines = append(lines, "", "todos:")
		for _, todo := range state.Todos {
			lines = append(lines, formatTodo(todo))
		}
	}
	return lines
}

func formatActivity(act model.ActivityEntry) string {
	line := act.Icon + " " + act.Label
	if act.Detail != "" {
		line += "  " + act.Detail
	}
	if act.Count > 1 {
		line += fmt.Sprintf(" (x%d)", act.Count)
	}
	return line
}

func formatTodo(todo model.TodoItem) string {
	switch todo.Status {
	case model.TodoCompleted:
		return "[x] " + todo.Content
	case model.TodoInProgress:
		label := todo.Content
		if todo.ActiveForm != "" {
			label = todo.ActiveForm
		}
		return util.ColorYellow + "[>] " + label + util.ColorReset
	default:
		return "[ ] " + todo.Content
	}
}
