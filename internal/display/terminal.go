// Package display owns the terminal: the alternate screen buffer,
// cursor visibility, and full-frame paints. Rendering stays plain ANSI
// writes; callers hand it finished lines.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/neochoon/agenthud/internal/util"
)

// DefaultWidth is used when the output is not a terminal or the size
// probe fails.
const DefaultWidth = 80

// Terminal writes frames to out, tracking whether the alternate screen
// is active so Close is safe to call on any exit path.
type Terminal struct {
	out         io.Writer
	inAltScreen bool
	lastLines   int
}

func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{out: out}
}

// Width probes the terminal width of stdout, falling back to
// DefaultWidth for pipes and failed probes.
func Width() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// EnterAltScreen switches to the alternate buffer, clears it, and hides
// the cursor. Idempotent.
func (t *Terminal) EnterAltScreen() {
	if t.inAltScreen {
		return
	}
	fmt.Fprint(t.out, util.EnterAltScreen)
	fmt.Fprint(t.out, util.ClearScreen)
	fmt.Fprint(t.out, util.MoveCursorHome)
	fmt.Fprint(t.out, util.HideCursor)
	t.inAltScreen = true
	t.lastLines = 0
}

// ExitAltScreen restores the normal buffer and cursor. Idempotent.
func (t *Terminal) ExitAltScreen() {
	if !t.inAltScreen {
		return
	}
	fmt.Fprint(t.out, util.ClearScreen)
	fmt.Fprint(t.out, util.MoveCursorHome)
	fmt.Fprint(t.out, util.ShowCursor)
	fmt.Fprint(t.out, util.ExitAltScreen)
	t.inAltScreen = false
}

// Render paints a full frame from the home position. It overwrites in
// place rather than clearing first, which avoids flicker; each line is
// cleared to end-of-line, and leftover rows from a taller previous
// frame are wiped.
func (t *Terminal) Render(lines []string) {
	var b strings.Builder
	b.WriteString(util.MoveCursorHome)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\033[K\r\n")
	}
	if t.inAltScreen && len(lines) < t.lastLines {
		b.WriteString("\033[J")
	}
	t.lastLines = len(lines)
	fmt.Fprint(t.out, b.String())
}

// Print writes lines as ordinary scrolling output, for the single-pass
// mode where the alternate screen never opens.
func (t *Terminal) Print(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(t.out, line)
	}
}
