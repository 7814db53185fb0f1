// Package scheduler owns per-panel refresh cadence: countdowns, manual
// and automatic ticks, visual feedback, and hotkey dispatch. It treats
// every data source uniformly through the provider contract and never
// lets one panel's failure disturb another's cadence.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neochoon/agenthud/internal/config"
	"github.com/neochoon/agenthud/internal/core/model"
	"github.com/neochoon/agenthud/internal/provider"
	"github.com/neochoon/agenthud/internal/util"
)

// flashDuration is how long the just-refreshed indicator stays lit.
const flashDuration = 1500 * time.Millisecond

// Controller coordinates all panel refreshes. All exported methods are
// safe for concurrent use.
type Controller struct {
	mu      sync.RWMutex
	panels  []*panelRuntime
	byName  map[string]*panelRuntime
	hotkeys map[rune]string
	changed chan struct{}
	clock   func() time.Time
	flash   time.Duration
}

// panelRuntime lives from controller start to process exit; it is
// mutated only by ticks, flash expiry, and the heartbeat.
type panelRuntime struct {
	cfg        config.Panel
	provider   provider.Provider
	countdown  int // seconds until next auto refresh; 0 = manual panel
	visual     model.VisualState
	snapshot   model.PanelSnapshot
	seq        uint64
	hotkey     rune
	flashTimer *time.Timer
}

// PanelView is a read-only copy of one panel's runtime state, taken for
// rendering.
type PanelView struct {
	Name      string
	Type      string
	Hotkey    rune
	Manual    bool
	Countdown int
	Visual    model.VisualState
	Snapshot  model.PanelSnapshot
}

// New builds a controller for every enabled panel in cfg. providers
// maps panel name to its data source; a missing provider is a
// configuration bug and fails construction.
func New(cfg *config.Config, providers map[string]provider.Provider, clock func() time.Time) (*Controller, error) {
	if clock == nil {
		clock = time.Now
	}
	c := &Controller{
		byName:  make(map[string]*panelRuntime),
		changed: make(chan struct{}, 1),
		clock:   clock,
		flash:   flashDuration,
	}

	for _, pc := range cfg.Panels {
		if !pc.IsEnabled() {
			continue
		}
		prov, ok := providers[pc.Name]
		if !ok {
			return nil, fmt.Errorf("no provider for panel %q", pc.Name)
		}
		p := &panelRuntime{cfg: pc, provider: prov}
		if pc.Interval != nil {
			p.countdown = countdownSeconds(pc.Interval.Std())
		}
		c.panels = append(c.panels, p)
		c.byName[pc.Name] = p
	}

	c.hotkeys = deriveHotkeys(c.panels)
	for key, name := range c.hotkeys {
		c.byName[name].hotkey = key
	}
	return c, nil
}

// countdownSeconds converts an interval to its displayed countdown,
// never below 1.
func countdownSeconds(d time.Duration) int {
	secs := int(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Init stores an immediately render-able placeholder for every panel
// and kicks off the first round of fetches without waiting for them.
// Single-pass callers use RunOnce instead; it fetches synchronously and
// needs no placeholders.
func (c *Controller) Init(ctx context.Context) {
	c.seedPlaceholders()
	for _, p := range c.panels {
		c.Tick(ctx, p.cfg.Name)
	}
}

func (c *Controller) seedPlaceholders() {
	c.mu.Lock()
	now := c.clock()
	for _, p := range c.panels {
		p.snapshot = model.PanelSnapshot{Lines: []string{"loading…"}, Timestamp: now}
	}
	c.mu.Unlock()
	c.notifyChanged()
}

// Tick refreshes one panel asynchronously. Overlapping ticks on the
// same panel are neither cancelled nor queued: whichever fetch
// completes last overwrites the snapshot (last-write-wins, observable
// through PanelSnapshot.Seq).
func (c *Controller) Tick(ctx context.Context, name string) {
	c.mu.Lock()
	p, ok := c.byName[name]
	if !ok {
		c.mu.Unlock()
		return
	}
	p.visual.IsRunning = true
	prov := p.provider
	c.mu.Unlock()
	c.notifyChanged()

	go func() {
		c.store(p, fetch(ctx, prov))
	}()
}

// TickSync refreshes one panel inline; used by the single-pass mode.
func (c *Controller) TickSync(ctx context.Context, name string) {
	c.mu.RLock()
	p, ok := c.byName[name]
	c.mu.RUnlock()
	if !ok {
		return
	}
	c.store(p, fetch(ctx, p.provider))
}

// fetch invokes a provider, converting a panic into a provider error so
// no data source can take the process down.
func fetch(ctx context.Context, prov provider.Provider) (res provider.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = provider.Result{Err: fmt.Errorf("provider panicked: %v", r)}
			util.LogErrorf("provider panic: %v", r)
		}
	}()
	return prov.Fetch(ctx)
}

// store commits a fetch result: snapshot swap, visual feedback window,
// countdown reset.
func (c *Controller) store(p *panelRuntime, res provider.Result) {
	c.mu.Lock()
	p.seq++
	snap := model.PanelSnapshot{
		Lines:     res.Lines,
		Data:      res.Data,
		Timestamp: c.clock(),
		Seq:       p.seq,
	}
	if res.Err != nil {
		snap.Error = res.Err.Error()
		util.LogWarnf("panel %s refresh failed: %v", p.cfg.Name, res.Err)
	}
	p.snapshot = snap
	p.visual.IsRunning = false
	p.visual.JustRefreshed = true
	p.visual.JustCompleted = true
	if p.cfg.Interval != nil {
		p.countdown = countdownSeconds(p.cfg.Interval.Std())
	}
	if p.flashTimer != nil {
		p.flashTimer.Stop()
	}
	p.flashTimer = time.AfterFunc(c.flash, func() { c.clearFlash(p) })
	c.mu.Unlock()
	c.notifyChanged()
}

func (c *Controller) clearFlash(p *panelRuntime) {
	c.mu.Lock()
	p.visual.JustRefreshed = false
	p.visual.JustCompleted = false
	c.mu.Unlock()
	c.notifyChanged()
}

// Heartbeat advances every automatic panel's countdown by one second,
// floored at 1. The reset to the full interval only ever comes from a
// completed tick.
func (c *Controller) Heartbeat() {
	c.mu.Lock()
	changed := false
	for _, p := range c.panels {
		if p.countdown > 1 {
			p.countdown--
			changed = true
		}
	}
	c.mu.Unlock()
	if changed {
		c.notifyChanged()
	}
}

// RefreshAll ticks every panel.
func (c *Controller) RefreshAll(ctx context.Context) {
	c.mu.RLock()
	names := make([]string, 0, len(c.panels))
	for _, p := range c.panels {
		names = append(names, p.cfg.Name)
	}
	c.mu.RUnlock()
	for _, name := range names {
		c.Tick(ctx, name)
	}
}

// HandleInput dispatches one keypress. It reports whether the caller
// should quit.
func (c *Controller) HandleInput(ctx context.Context, key rune) bool {
	switch key {
	case 'q', 'Q', 3: // 'q' or Ctrl+C
		return true
	case 'r', 'R':
		c.RefreshAll(ctx)
		return false
	}

	c.mu.RLock()
	name, ok := c.hotkeys[key]
	c.mu.RUnlock()
	if ok {
		c.Tick(ctx, name)
	}
	return false
}

// RunOnce performs exactly one synchronous pass over all panels. No
// timers run and no hotkeys apply; the caller renders once and exits.
func (c *Controller) RunOnce(ctx context.Context) {
	for _, p := range c.panels {
		c.TickSync(ctx, p.cfg.Name)
	}
}

// Run drives the controller with real timers until ctx is cancelled:
// a 1 Hz heartbeat plus one ticker per automatic panel.
func (c *Controller) Run(ctx context.Context) {
	for _, p := range c.panels {
		if p.cfg.Interval == nil {
			continue
		}
		go func(name string, every time.Duration) {
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.Tick(ctx, name)
				}
			}
		}(p.cfg.Name, p.cfg.Interval.Std())
	}

	heartbeat := time.NewTicker(time.Second)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			c.Heartbeat()
		}
	}
}

// Changed signals that some panel's state moved; the render loop
// coalesces on it.
func (c *Controller) Changed() <-chan struct{} {
	return c.changed
}

func (c *Controller) notifyChanged() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

// Views returns a render-ready copy of every panel in config order.
func (c *Controller) Views() []PanelView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	views := make([]PanelView, 0, len(c.panels))
	for _, p := range c.panels {
		views = append(views, PanelView{
			Name:      p.cfg.Name,
			Type:      p.cfg.Type,
			Hotkey:    p.hotkey,
			Manual:    p.cfg.Interval == nil,
			Countdown: p.countdown,
			Visual:    p.visual,
			Snapshot:  p.snapshot,
		})
	}
	return views
}
