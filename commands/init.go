package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neochoon/agenthud/internal/util"
)

// scaffold mirrors config.Default so a fresh file behaves exactly like
// running with no file at all.
const scaffold = `# agenthud dashboard configuration.
# width: 0 uses the terminal width.
width: 0

# Directory holding the agent session logs for this project.
session_dir: ~/.claude/projects

# A log untouched for longer than this counts as idle.
session_timeout: 5m

# Activity feed length for the assistant panel.
max_activities: 10

panels:
  - name: claude
    type: assistant
    interval: 5s

  - name: git
    type: git
    interval: 30s
    limit: 8

  # No interval makes a panel manual: it refreshes on its hotkey.
  - name: tests
    type: tests
    command: go test ./...

  - name: project
    type: project
    interval: 1m

  # - name: docker
  #   type: custom
  #   command: docker ps --format '{{.Names}}  {{.Status}}'
  #   interval: 10s
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter agenthud.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := util.ExpandPath(configPath)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := os.WriteFile(path, []byte(scaffold), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
