package session

import (
	"bytes"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/neochoon/agenthud/internal/core/model"
	"github.com/neochoon/agenthud/internal/util"
)

const (
	// scanWindow bounds the replay to the trailing lines of the main
	// log, keeping derivation cost independent of total log size.
	scanWindow = 200

	// startTimeScanLimit bounds the search for the session start
	// timestamp to the head of the file.
	startTimeScanLimit = 50

	// responseMinChars is the minimum rune length for an assistant
	// text block to count as a response; shorter acknowledgements are
	// noise.
	responseMinChars = 20

	// todoToolName is the bookkeeping tool whose invocations update
	// classification but never appear in the feed.
	todoToolName = "TodoWrite"

	// delegateToolName spawns a sub-session logged separately.
	delegateToolName = "Task"

	// turnCompleteSubtype is the system record marking a finished turn.
	turnCompleteSubtype = "turn_duration"
)

// Feed icons, keyed by activity kind.
const (
	iconUser     = "❯"
	iconTool     = "⚙"
	iconResponse = "✦"
)

// DeriveState replays sessionFile into a SessionState snapshot holding
// at most maxActivities feed entries, newest first. Every call starts
// from scratch; malformed lines are skipped, and only a failure to read
// the main file degrades the result to "no session".
func (e *Engine) DeriveState(sessionFile string, maxActivities int) model.SessionState {
	data, err := e.fs.ReadFile(sessionFile)
	if err != nil {
		util.LogDebugf("session log not readable: %s - %v", sessionFile, err)
		return model.NoSession(err)
	}
	lines := splitLines(data)

	state := model.SessionState{Status: model.StatusNone}
	state.StartTime = findStartTime(lines)

	window := lines
	if len(window) > scanWindow {
		window = window[len(window)-scanWindow:]
	}

	r := &replay{}
	for _, line := range window {
		r.consume(line)
	}

	state.Todos = r.todos
	state.TokenCount = r.tokens

	// Newest first.
	acts := r.activities
	for i, j := 0, len(acts)-1; i < j; i, j = i+1, j-1 {
		acts[i], acts[j] = acts[j], acts[i]
	}

	subTokens, feeds := e.collectSubagents(sessionFile)
	state.TokenCount += subTokens
	attachSubagents(acts, feeds)

	if len(acts) > maxActivities {
		acts = acts[:maxActivities]
	}
	state.Activities = acts

	if r.lastTS.IsZero() {
		state.Status = model.StatusNone
	} else {
		state.Status = statusFor(e.now().Sub(r.lastTS), r.class)
	}
	return state
}

// replay accumulates feed state while consuming log lines in file order.
type replay struct {
	activities []model.ActivityEntry
	todos      []model.TodoItem
	tokens     int
	lastTS     time.Time
	class      classification
}

func (r *replay) consume(line []byte) {
	if len(bytes.TrimSpace(line)) == 0 {
		return
	}
	var rec model.LogRecord
	if err := sonic.Unmarshal(line, &rec); err != nil {
		// One bad line never aborts the pass.
		return
	}
	ts, hasTS := parseTimestamp(rec.Timestamp)

	switch rec.Type {
	case "user":
		r.consumeUser(rec, ts, hasTS)
	case "assistant":
		r.consumeAssistant(rec, ts, hasTS)
	case "system":
		if rec.Subtype == turnCompleteSubtype {
			r.mark(classStop, ts, hasTS)
		}
	}
}

// mark records the classification of the latest timestamped event.
// Untimestamped events leave status inputs untouched.
func (r *replay) mark(class classification, ts time.Time, hasTS bool) {
	if !hasTS {
		return
	}
	r.lastTS = ts
	r.class = class
}

func (r *replay) consumeUser(rec model.LogRecord, ts time.Time, hasTS bool) {
	if todos := rec.ToolUseResult.NewTodos; len(todos) > 0 {
		// Latest payload wins wholesale, no merging.
		r.todos = append([]model.TodoItem(nil), todos...)
	}
	if rec.IsMeta {
		return
	}

	text := ""
	toolResults := 0
	for _, item := range rec.Message.Content {
		switch item.Type {
		case "text":
			if text == "" {
				text = strings.TrimSpace(item.Text)
			}
		case "tool_result":
			toolResults++
		}
	}

	if text != "" {
		r.append(model.ActivityEntry{
			Timestamp: ts,
			Kind:      model.KindUser,
			Icon:      iconUser,
			Label:     "User",
			Detail:    firstLine(text),
			Count:     1,
		})
		r.mark(classUser, ts, hasTS)
		return
	}
	if toolResults > 0 && toolResults == len(rec.Message.Content) {
		// A returning tool result means the assistant is mid-turn.
		r.mark(classTool, ts, hasTS)
	}
}

func (r *replay) consumeAssistant(rec model.LogRecord, ts time.Time, hasTS bool) {
	r.tokens += rec.Message.Usage.Total()

	for _, item := range rec.Message.Content {
		switch item.Type {
		case "tool_use":
			if item.Name == todoToolName {
				r.mark(classTool, ts, hasTS)
				continue
			}
			detail := toolDetail(item.Input)
			if last := r.last(); last != nil && last.Kind == model.KindTool &&
				last.Label == item.Name && last.Detail == detail {
				// Run-length aggregation over consecutive
				// identical invocations only.
				last.Count++
				if hasTS {
					last.Timestamp = ts
				}
			} else {
				r.append(model.ActivityEntry{
					Timestamp: ts,
					Kind:      model.KindTool,
					Icon:      iconTool,
					Label:     item.Name,
					Detail:    detail,
					Count:     1,
				})
			}
			r.mark(classTool, ts, hasTS)

		case "text":
			text := strings.TrimSpace(item.Text)
			if len([]rune(text)) <= responseMinChars {
				continue
			}
			r.append(model.ActivityEntry{
				Timestamp: ts,
				Kind:      model.KindResponse,
				Icon:      iconResponse,
				Label:     "Claude",
				Detail:    firstLine(text),
				Count:     1,
			})
			r.mark(classResponse, ts, hasTS)
		}
	}
}

func (r *replay) append(entry model.ActivityEntry) {
	r.activities = append(r.activities, entry)
}

func (r *replay) last() *model.ActivityEntry {
	if len(r.activities) == 0 {
		return nil
	}
	return &r.activities[len(r.activities)-1]
}

// toolDetail summarizes a tool invocation by input field priority:
// command, file path basename, pattern, query, description.
func toolDetail(input model.ToolInput) string {
	switch {
	case input.Command != "":
		return firstLine(input.Command)
	case input.FilePath != "":
		return filepath.Base(input.FilePath)
	case input.Pattern != "":
		return firstLine(input.Pattern)
	case input.Query != "":
		return firstLine(input.Query)
	case input.Description != "":
		return firstLine(input.Description)
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// findStartTime returns the timestamp of the first line, among the
// leading startTimeScanLimit lines, carrying a valid one.
func findStartTime(lines [][]byte) *time.Time {
	limit := len(lines)
	if limit > startTimeScanLimit {
		limit = startTimeScanLimit
	}
	for _, line := range lines[:limit] {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var rec model.LogRecord
		if err := sonic.Unmarshal(line, &rec); err != nil {
			continue
		}
		if ts, ok := parseTimestamp(rec.Timestamp); ok {
			return &ts
		}
	}
	return nil
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func splitLines(data []byte) [][]byte {
	lines := bytes.Split(data, []byte("\n"))
	// A trailing newline yields one empty tail element; drop it so the
	// window does not waste a slot.
	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}
	return lines
}
