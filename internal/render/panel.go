// Package render turns panel runtime state into fixed-width bordered
// text blocks. It emits raw ANSI-decorated lines; stripping the escape
// sequences from any emitted line always yields exactly the requested
// display width.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/neochoon/agenthud/internal/scheduler"
	"github.com/neochoon/agenthud/internal/util"
)

const (
	// MinWidth is the narrowest block that still fits a title bar.
	MinWidth = 24

	borderTopLeft     = "┌"
	borderTopRight    = "┐"
	borderBottomLeft  = "└"
	borderBottomRight = "┘"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Block renders one panel as a bordered block of exactly width display
// columns per line. now feeds the freshness footer.
func Block(v scheduler.PanelView, width int, now time.Time) []string {
	if width < MinWidth {
		width = MinWidth
	}
	inner := width - 4 // borders plus one space of padding each side

	lines := make([]string, 0, len(v.Snapshot.Lines)+3)
	lines = append(lines, titleBar(v, width))

	for _, body := range v.Snapshot.Lines {
		lines = append(lines, bodyLine(body, inner))
	}
	if len(v.Snapshot.Lines) == 0 && v.Snapshot.Error == "" {
		lines = append(lines, bodyLine(util.ColorGray+"(empty)"+util.ColorReset, inner))
	}
	if v.Snapshot.Error != "" {
		msg := util.PadToWidth("✗ "+v.Snapshot.Error, inner)
		lines = append(lines, borderVertical+" "+util.ColorRed+msg+util.ColorReset+" "+borderVertical)
	}

	lines = append(lines, bottomBar(v, width, now))
	return lines
}

// Frame renders every panel in order, stacked vertically with no
// separator lines; the borders are the separators.
func Frame(views []scheduler.PanelView, width int, now time.Time) []string {
	var out []string
	for _, v := range views {
		out = append(out, Block(v, width, now)...)
	}
	return out
}

// bodyLine pads one content line inside the side borders. The content
// may carry its own ANSI color; padding is computed on visible runes
// only.
func bodyLine(content string, inner int) string {
	return borderVertical + " " + PadVisible(content, inner) + " " + borderVertical
}

// titleBar lays out the top border: status dot, panel name, optional
// hotkey, then cadence on the right, the gap filled with rule
// characters.
func titleBar(v scheduler.PanelView, width int) string {
	dot, dotColor := statusDot(v)
	name := v.Name
	hot := ""
	if v.Hotkey != 0 {
		hot = " [" + string(v.Hotkey) + "]"
	}
	right := " " + cadenceLabel(v) + " " + borderHorizontal + borderTopRight

	fixed := util.GetDisplayWidth(borderTopLeft+borderHorizontal+" "+dot+" "+hot+" ") +
		util.GetDisplayWidth(right)
	name = util.TruncateToWidth(name, width-fixed)

	fill := width - fixed - util.GetDisplayWidth(name)
	return borderTopLeft + borderHorizontal + " " +
		dotColor + dot + util.ColorReset + " " +
		util.ColorBold + name + util.ColorReset +
		util.ColorCyan + hot + util.ColorReset + " " +
		strings.Repeat(borderHorizontal, fill) + right
}

// bottomBar closes the block and carries the freshness footer when the
// snapshot has a real timestamp.
func bottomBar(v scheduler.PanelView, width int, now time.Time) string {
	ago := ""
	if v.Snapshot.Seq > 0 {
		ago = util.FormatAgo(v.Snapshot.Timestamp, now)
	}
	if ago == "" {
		return borderBottomLeft + strings.Repeat(borderHorizontal, width-2) + borderBottomRight
	}
	right := " " + ago + " " + borderHorizontal + borderBottomRight
	fill := width - 1 - util.GetDisplayWidth(right)
	return borderBottomLeft + strings.Repeat(borderHorizontal, fill) +
		util.ColorGray + " " + ago + " " + util.ColorReset +
		borderHorizontal + borderBottomRight
}

// statusDot picks the title indicator. Order matters: an in-flight
// refresh trumps the flash, which trumps the error state.
func statusDot(v scheduler.PanelView) (string, string) {
	switch {
	case v.Visual.IsRunning:
		return "◌", util.ColorYellow
	case v.Visual.JustRefreshed:
		return "●", util.ColorGreen
	case v.Snapshot.Error != "":
		return "●", util.ColorRed
	default:
		return "●", util.ColorGray
	}
}

// cadenceLabel is the right side of the title bar: the countdown for
// automatic panels, a static marker for manual ones.
func cadenceLabel(v scheduler.PanelView) string {
	if v.Visual.IsRunning {
		return "⟳"
	}
	if v.Manual {
		return "manual"
	}
	return fmt.Sprintf("%ds", v.Countdown)
}

// VisibleWidth measures display columns ignoring ANSI escape
// sequences.
func VisibleWidth(s string) int {
	return util.GetDisplayWidth(StripANSI(s))
}

// PadVisible right-pads (or truncates) to exactly width visible
// columns, ignoring any ANSI sequences already embedded in s.
// Truncation drops colors wholesale; a line long enough to truncate is
// rendered plain.
func PadVisible(s string, width int) string {
	plain := StripANSI(s)
	if util.GetDisplayWidth(plain) > width {
		// Truncation may land one column short of a wide rune, so pad
		// the plain remainder back out.
		s = util.TruncateToWidth(plain, width)
		plain = s
	}
	pad := width - util.GetDisplayWidth(plain)
	return s + strings.Repeat(" ", pad)
}

// StripANSI removes CSI escape sequences.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			if i < len(s) {
				i++ // final byte
			}
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
