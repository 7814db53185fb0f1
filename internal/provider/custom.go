package provider

import (
	"context"
	"fmt"
)

// Custom runs an arbitrary shell command and shows its output.
type Custom struct {
	dir     string
	command string
	limit   int
}

func NewCustom(dir, command string, limit int) *Custom {
	if limit <= 0 {
		limit = 12
	}
	return &Custom{dir: dir, command: command, limit: limit}
}

func (c *Custom) Fetch(ctx context.Context) Result {
	out, err := runShell(ctx, c.dir, c.command)
	if err != nil {
		// Non-zero exit is a provider error; keep the tail so the
		// panel shows why.
		return Result{
			Lines: splitOutputLines(out, c.limit),
			Err:   fmt.Errorf("%s: %w", c.command, err),
		}
	}
	lines := splitOutputLines(out, c.limit)
	if len(lines) == 0 {
		lines = []string{"(no output)"}
	}
	return Result{Lines: lines}
}
