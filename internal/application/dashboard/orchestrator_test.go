package dashboard

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neochoon/agenthud/internal/config"
	"github.com/neochoon/agenthud/internal/display"
)

// onceConfig builds a dashboard whose only panel appends a line to
// marker on every fetch, so the test can count real provider runs.
func onceConfig(t *testing.T, marker string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Width = 40
	cfg.SessionDir = t.TempDir()
	cfg.Panels = []config.Panel{
		{Name: "count", Type: config.TypeCustom, Command: "echo run >> " + marker},
	}
	return cfg
}

func TestRunOnceExecutesEachProviderExactlyOnce(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "marker")
	orch, err := NewOrchestrator(onceConfig(t, marker))
	require.NoError(t, err)

	var buf bytes.Buffer
	orch.term = display.NewTerminal(&buf)

	require.NoError(t, orch.RunOnce(context.Background()))

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	runs := strings.Count(string(data), "run")
	assert.Equal(t, 1, runs, "single pass ran the provider %d times", runs)
}

func TestRunOncePrintsOneCompleteFrame(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "marker")
	orch, err := NewOrchestrator(onceConfig(t, marker))
	require.NoError(t, err)

	var buf bytes.Buffer
	orch.term = display.NewTerminal(&buf)

	require.NoError(t, orch.RunOnce(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "count")
	// The frame holds fetched data, never the loading placeholder.
	assert.NotContains(t, out, "loading…")
}
