package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neochoon/agenthud/internal/application/dashboard"
	"github.com/neochoon/agenthud/internal/config"
	"github.com/neochoon/agenthud/internal/display"
	"github.com/neochoon/agenthud/internal/util"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	debug      bool
	configPath string
	watch      bool
	once       bool
	width      int

	rootCmd = &cobra.Command{
		Use:   "agenthud [flags]",
		Short: "Live terminal dashboard for agent-assisted development",
		Long: `agenthud renders a dashboard of bordered panels in the terminal:
git activity, test results, project metadata, custom command output, and
the live status of a Claude Code session (activity feed, token count,
todos).

By default it enters watch mode: panels refresh on their configured
intervals, a session-log watcher fast-paths assistant updates, and
manual panels refresh on their hotkeys. Press 'r' to refresh everything,
'q' to quit.

Examples:
  agenthud                          # watch mode with ./agenthud.yaml or defaults
  agenthud --once                   # one refresh pass, plain output, exit
  agenthud --config ~/hud.yaml      # explicit config file
  agenthud init                     # scaffold agenthud.yaml in the current directory`,
		RunE:          runWatch,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

const (
	defaultLogFile    = "~/.agenthud/logs/app.log"
	defaultConfigFile = "agenthud.yaml"
)

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigFile,
		"Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", true,
		"Run the live dashboard (the default mode)")
	rootCmd.Flags().BoolVar(&once, "once", false,
		"Refresh every panel once, print the dashboard, and exit")
	rootCmd.Flags().IntVar(&width, "width", 0,
		"Dashboard width in columns (0 = terminal width)")
	rootCmd.Flags().BoolP("version", "V", false,
		"Print the version and exit")
}

func runWatch(cmd *cobra.Command, args []string) error {
	initLogging()

	cfg, err := config.Load(util.ExpandPath(configPath))
	if err != nil {
		return err
	}
	if width > 0 {
		cfg.Width = width
	}

	orch, err := dashboard.NewOrchestrator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if once || !watch {
		return orch.RunOnce(ctx)
	}
	if !display.IsTerminal() {
		return fmt.Errorf("watch mode needs a terminal; use --once for plain output")
	}
	return orch.Run(ctx)
}

func initLogging() {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := util.ExpandPath(defaultLogFile)
	util.EnsureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)
}

func Execute() error {
	return rootCmd.Execute()
}
