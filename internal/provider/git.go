package provider

import (
	"context"
	"fmt"
	"strings"
)

// Git shows recent commits and the working tree's dirtiness.
type Git struct {
	dir   string
	limit int
}

func NewGit(dir string, limit int) *Git {
	if limit <= 0 {
		limit = 8
	}
	return &Git{dir: dir, limit: limit}
}

func (g *Git) Fetch(ctx context.Context) Result {
	log, err := runGit(ctx, g.dir, "log", "--pretty=format:%h %s", "-n", fmt.Sprintf("%d", g.limit))
	if err != nil {
		return Result{Err: err}
	}

	var lines []string
	if log != "" {
		lines = strings.Split(log, "\n")
	} else {
		lines = []string{"no commits yet"}
	}

	// Dirtiness is informational; its failure does not fail the panel.
	if status, err := runGit(ctx, g.dir, "status", "--porcelain"); err == nil && status != "" {
		n := len(strings.Split(status, "\n"))
		lines = append(lines, "", fmt.Sprintf("● %d uncommitted change(s)", n))
	}
	return Result{Lines: lines}
}
