package scheduler

import (
	"strings"
	"unicode"
)

// reservedKeys are the global actions no panel may shadow.
var reservedKeys = map[rune]bool{
	'r': true, // refresh all
	'q': true, // quit
}

// deriveHotkeys assigns each manual panel the first unclaimed rune of
// its lowercased name, scanning left to right. A panel whose name is
// exhausted simply gets no hotkey; that is not an error.
func deriveHotkeys(panels []*panelRuntime) map[rune]string {
	claimed := make(map[rune]bool, len(reservedKeys))
	for key := range reservedKeys {
		claimed[key] = true
	}

	hotkeys := make(map[rune]string)
	for _, p := range panels {
		if p.cfg.Interval != nil {
			continue
		}
		for _, ch := range strings.ToLower(p.cfg.Name) {
			if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
				continue
			}
			if claimed[ch] {
				continue
			}
			claimed[ch] = true
			hotkeys[ch] = p.cfg.Name
			break
		}
	}
	return hotkeys
}
