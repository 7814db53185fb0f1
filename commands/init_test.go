package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neochoon/agenthud/internal/config"
)

func TestScaffoldLoadsAsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenthud.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scaffold), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agenthud.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 0\n"), 0644))

	old := configPath
	configPath = path
	defer func() { configPath = old }()

	err := initCmd.RunE(initCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenthud.yaml")

	old := configPath
	configPath = path
	defer func() { configPath = old }()

	require.NoError(t, initCmd.RunE(initCmd, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, scaffold, string(data))
}
