// Package provider defines the uniform data-source contract the panel
// scheduler drives, plus the built-in implementations. A provider never
// panics and never blocks past its context: every failure is folded
// into the returned Result.
package provider

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result is one fetched panel payload. Err is surfaced to the panel as
// an error string; Lines are the render-able body either way.
type Result struct {
	Lines []string
	Data  any
	Err   error
}

// Provider fetches one panel's data.
type Provider interface {
	Fetch(ctx context.Context) Result
}

// defaultExecTimeout bounds exec-backed providers when the caller's
// context carries no deadline of its own.
const defaultExecTimeout = 10 * time.Second

// runShell runs command through the shell in dir and returns combined
// output. The error keeps the exit status; output is returned even on
// failure so callers can show what the command printed.
func runShell(ctx context.Context, dir, command string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultExecTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return string(out), fmt.Errorf("command timed out: %s", command)
	}
	return string(out), err
}

// runGit runs a git subcommand in dir and returns trimmed stdout.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultExecTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// splitOutputLines splits command output into display lines, dropping a
// trailing blank line and capping at limit when limit > 0.
func splitOutputLines(out string, limit int) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}
