package session

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/neochoon/agenthud/internal/core/model"
	"github.com/neochoon/agenthud/internal/util"
)

// subagentDirName is the sibling directory holding delegated session
// logs: <session-file-without-extension>/subagents/.
const subagentDirName = "subagents"

// subagentFeed is the digest of one sub-log used to annotate a
// delegation entry in the main feed.
type subagentFeed struct {
	// toolActivities holds the most recent tool invocations, newest
	// first, capped at subActivityLimit.
	toolActivities []model.ActivityEntry
	// total counts every activity entry the sub-log produced.
	total int
}

const subActivityLimit = 3

// collectSubagents replays every sub-log in full (they are assumed
// bounded and complete, so no windowing applies). It returns the token
// total across all sub-logs plus one feed digest per sub-log, ordered
// most-recently-modified first.
func (e *Engine) collectSubagents(sessionFile string) (int, []subagentFeed) {
	stem := strings.TrimSuffix(sessionFile, filepath.Ext(sessionFile))
	dir := filepath.Join(stem, subagentDirName)

	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		// No subagents directory is the common case.
		return 0, nil
	}

	type candidate struct {
		path string
		mod  int64
	}
	var logs []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), LogExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logs = append(logs, candidate{
			path: filepath.Join(dir, entry.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].mod > logs[j].mod })

	tokens := 0
	var feeds []subagentFeed
	for _, lg := range logs {
		data, err := e.fs.ReadFile(lg.path)
		if err != nil {
			util.LogDebugf("skip sub-log (read failed): %s - %v", lg.path, err)
			continue
		}

		r := &replay{}
		for _, line := range splitLines(data) {
			r.consume(line)
		}
		tokens += r.tokens

		var tools []model.ActivityEntry
		for i := len(r.activities) - 1; i >= 0 && len(tools) < subActivityLimit; i-- {
			if r.activities[i].Kind == model.KindTool {
				tools = append(tools, r.activities[i])
			}
		}
		feeds = append(feeds, subagentFeed{
			toolActivities: tools,
			total:          len(r.activities),
		})
	}
	return tokens, feeds
}

// attachSubagents joins sub-log digests to delegation entries by recency
// order: the most recent sub-log pairs with the most recent delegation
// entry, and so on. The record format carries no identifier linking a
// delegation to its sub-log, so this positional join is best effort and
// can mis-attribute concurrent delegations.
func attachSubagents(activities []model.ActivityEntry, feeds []subagentFeed) {
	next := 0
	for i := range activities {
		if next >= len(feeds) {
			return
		}
		if activities[i].Kind != model.KindTool || activities[i].Label != delegateToolName {
			continue
		}
		activities[i].SubActivities = feeds[next].toolActivities
		activities[i].SubActivityCount = feeds[next].total
		next++
	}
}
