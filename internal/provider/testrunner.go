package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/neochoon/agenthud/internal/util"
)

// TestRunner runs the project's test command and reports pass/fail plus
// the output tail.
type TestRunner struct {
	dir     string
	command string
	tail    int
}

// TestOutcome is the typed payload stored alongside the rendered lines.
type TestOutcome struct {
	Passed   bool
	Duration time.Duration
}

func NewTestRunner(dir, command string, tail int) *TestRunner {
	if tail <= 0 {
		tail = 10
	}
	return &TestRunner{dir: dir, command: command, tail: tail}
}

func (t *TestRunner) Fetch(ctx context.Context) Result {
	start := time.Now()
	out, err := runShell(ctx, t.dir, t.command)
	elapsed := time.Since(start)

	outcome := TestOutcome{Passed: err == nil, Duration: elapsed}
	if err == nil {
		return Result{
			Lines: []string{util.ColorGreen + fmt.Sprintf("PASS (%.1fs)", elapsed.Seconds()) + util.ColorReset},
			Data:  outcome,
		}
	}

	lines := []string{util.ColorRed + fmt.Sprintf("FAIL (%.1fs)", elapsed.Seconds()) + util.ColorReset}
	lines = append(lines, splitOutputLines(out, t.tail)...)
	return Result{Lines: lines, Data: outcome}
}
