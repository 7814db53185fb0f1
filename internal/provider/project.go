package provider

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Project shows static-ish project metadata: name, branch, HEAD, and
// tracked file count.
type Project struct {
	dir string
}

func NewProject(dir string) *Project {
	return &Project{dir: dir}
}

func (p *Project) Fetch(ctx context.Context) Result {
	abs, err := filepath.Abs(p.dir)
	if err != nil {
		abs = p.dir
	}
	lines := []string{"name:   " + filepath.Base(abs)}

	branch, err := runGit(ctx, p.dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		// Not a git repository still renders a panel.
		lines = append(lines, "not a git repository")
		return Result{Lines: lines}
	}
	lines = append(lines, "branch: "+branch)

	if head, err := runGit(ctx, p.dir, "log", "-1", "--pretty=format:%s (%cr)"); err == nil && head != "" {
		lines = append(lines, "head:   "+head)
	}
	if tracked, err := runGit(ctx, p.dir, "ls-files"); err == nil {
		n := 0
		if tracked != "" {
			n = len(strings.Split(tracked, "\n"))
		}
		lines = append(lines, fmt.Sprintf("files:  %d tracked", n))
	}
	return Result{Lines: lines}
}
