// Package dashboard wires the pieces together: providers feeding the
// refresh controller, the session watcher's fast path, keyboard input,
// and the frame loop painting into the alternate screen.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/neochoon/agenthud/internal/config"
	"github.com/neochoon/agenthud/internal/core/model"
	"github.com/neochoon/agenthud/internal/display"
	"github.com/neochoon/agenthud/internal/interaction"
	"github.com/neochoon/agenthud/internal/provider"
	"github.com/neochoon/agenthud/internal/render"
	"github.com/neochoon/agenthud/internal/scheduler"
	"github.com/neochoon/agenthud/internal/session"
	"github.com/neochoon/agenthud/internal/util"
	"github.com/neochoon/agenthud/internal/watcher"
)

// Orchestrator owns the run loop for one dashboard process.
type Orchestrator struct {
	cfg        *config.Config
	controller *scheduler.Controller
	term       *display.Terminal
	keyboard   *interaction.KeyboardReader
	watcher    *watcher.SessionWatcher
	width      int
	sessionDir string

	// assistantPanels are the panel names to tick when a session log
	// changes on disk.
	assistantPanels []string
}

func NewOrchestrator(cfg *config.Config) (*Orchestrator, error) {
	engine := session.NewEngine(nil, nil)
	sessionDir := util.ExpandPath(cfg.SessionDir)

	providers := make(map[string]provider.Provider)
	var assistantPanels []string
	for _, p := range cfg.Panels {
		if !p.IsEnabled() {
			continue
		}
		switch p.Type {
		case config.TypeAssistant:
			providers[p.Name] = provider.NewAssistant(
				engine, sessionDir, cfg.SessionTimeout.Std(), cfg.MaxActivities, nil)
			assistantPanels = append(assistantPanels, p.Name)
		case config.TypeGit:
			providers[p.Name] = provider.NewGit(p.Dir, p.Limit)
		case config.TypeTests:
			providers[p.Name] = provider.NewTestRunner(p.Dir, p.Command, p.Limit)
		case config.TypeProject:
			providers[p.Name] = provider.NewProject(p.Dir)
		case config.TypeCustom:
			providers[p.Name] = provider.NewCustom(p.Dir, p.Command, p.Limit)
		}
	}

	controller, err := scheduler.New(cfg, providers, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build refresh controller: %w", err)
	}

	width := cfg.Width
	if width <= 0 {
		width = display.Width()
	}

	return &Orchestrator{
		cfg:             cfg,
		controller:      controller,
		term:            display.NewTerminal(nil),
		width:           width,
		sessionDir:      sessionDir,
		assistantPanels: assistantPanels,
	}, nil
}

// Run drives the interactive dashboard until ctx is cancelled or the
// user quits.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfof("starting dashboard, %d panels", len(o.controller.Views()))
	defer o.Close()

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	o.keyboard = keyboard

	o.term.EnterAltScreen()
	defer o.term.ExitAltScreen()

	o.startWatcher()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.controller.Init(ctx)
	go o.controller.Run(ctx)
	o.paint()

	watchEvents := o.watchEvents()
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-o.controller.Changed():
			o.paint()

		case ev := <-watchEvents:
			util.LogDebugf("session log changed: %s (%s)", ev.Path, ev.Operation)
			for _, name := range o.assistantPanels {
				o.controller.Tick(ctx, name)
			}

		case key := <-o.keyboard.Events():
			if key.Type == interaction.KeyEscape {
				return nil
			}
			if o.controller.HandleInput(ctx, key.Key) {
				return nil
			}
		}
	}
}

// RunOnce performs a single synchronous refresh of every panel and
// prints one frame as plain scrolling output. No Init here: every
// provider runs exactly once, and nothing races the printed frame.
func (o *Orchestrator) RunOnce(ctx context.Context) error {
	o.controller.RunOnce(ctx)
	o.term.Print(render.Frame(o.controller.Views(), o.width, time.Now()))
	return nil
}

func (o *Orchestrator) paint() {
	o.term.Render(render.Frame(o.controller.Views(), o.width, time.Now()))
}

// startWatcher begins following the session directory. The dashboard
// works without it; the assistant panel just falls back to its
// interval.
func (o *Orchestrator) startWatcher() {
	if len(o.assistantPanels) == 0 {
		return
	}
	sw, err := watcher.NewSessionWatcher(o.sessionDir)
	if err != nil {
		util.LogWarnf("session watch unavailable: %v", err)
		return
	}
	o.watcher = sw
}

// watchEvents returns the watcher channel, or nil (blocks forever in
// select) when the watcher never started.
func (o *Orchestrator) watchEvents() <-chan model.FileEvent {
	if o.watcher == nil {
		return nil
	}
	return o.watcher.Events()
}

// Close releases the terminal, keyboard, and watcher. Safe to call on
// any exit path.
func (o *Orchestrator) Close() error {
	if o.watcher != nil {
		o.watcher.Close()
	}
	if o.keyboard != nil {
		o.keyboard.Close()
	}
	o.term.ExitAltScreen()
	return nil
}
