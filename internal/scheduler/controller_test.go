package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neochoon/agenthud/internal/config"
	"github.com/neochoon/agenthud/internal/provider"
)

type stubProvider struct {
	mu    sync.Mutex
	calls int
	res   provider.Result
}

func (s *stubProvider) Fetch(ctx context.Context) provider.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.res
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type panicProvider struct{}

func (panicProvider) Fetch(ctx context.Context) provider.Result {
	panic("boom")
}

func testConfig(panels ...config.Panel) *config.Config {
	cfg := config.Default()
	cfg.Panels = panels
	return cfg
}

func autoPanel(name string, every time.Duration) config.Panel {
	d := config.Duration(every)
	return config.Panel{Name: name, Type: config.TypeCustom, Command: "true", Interval: &d}
}

func manualPanel(name string) config.Panel {
	return config.Panel{Name: name, Type: config.TypeCustom, Command: "true"}
}

func newController(t *testing.T, cfg *config.Config, providers map[string]provider.Provider) *Controller {
	t.Helper()
	c, err := New(cfg, providers, nil)
	require.NoError(t, err)
	return c
}

func view(t *testing.T, c *Controller, name string) PanelView {
	t.Helper()
	for _, v := range c.Views() {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("no panel %q", name)
	return PanelView{}
}

func TestCountdownFloor(t *testing.T) {
	c := newController(t, testConfig(autoPanel("git", 5*time.Second)),
		map[string]provider.Provider{"git": &stubProvider{}})

	assert.Equal(t, 5, view(t, c, "git").Countdown)

	for i := 0; i < 4; i++ {
		c.Heartbeat()
	}
	assert.Equal(t, 1, view(t, c, "git").Countdown)

	// Further heartbeats never reach 0.
	c.Heartbeat()
	c.Heartbeat()
	assert.Equal(t, 1, view(t, c, "git").Countdown)
}

func TestTickResetsCountdown(t *testing.T) {
	c := newController(t, testConfig(autoPanel("git", 5*time.Second)),
		map[string]provider.Provider{"git": &stubProvider{res: provider.Result{Lines: []string{"ok"}}}})

	c.Heartbeat()
	c.Heartbeat()
	assert.Equal(t, 3, view(t, c, "git").Countdown)

	c.TickSync(context.Background(), "git")
	assert.Equal(t, 5, view(t, c, "git").Countdown)
}

func TestManualPanelHasNoCountdown(t *testing.T) {
	c := newController(t, testConfig(manualPanel("tests")),
		map[string]provider.Provider{"tests": &stubProvider{}})

	v := view(t, c, "tests")
	assert.True(t, v.Manual)
	assert.Equal(t, 0, v.Countdown)

	c.Heartbeat()
	c.TickSync(context.Background(), "tests")
	assert.Equal(t, 0, view(t, c, "tests").Countdown)
}

func TestProviderErrorIsFolded(t *testing.T) {
	good := &stubProvider{res: provider.Result{Lines: []string{"fine"}}}
	bad := &stubProvider{res: provider.Result{Err: errors.New("exit status 1")}}
	c := newController(t,
		testConfig(autoPanel("good", 5*time.Second), autoPanel("bad", 5*time.Second)),
		map[string]provider.Provider{"good": good, "bad": bad})

	ctx := context.Background()
	c.TickSync(ctx, "good")
	c.TickSync(ctx, "bad")

	assert.Empty(t, view(t, c, "good").Snapshot.Error)
	assert.Equal(t, "exit status 1", view(t, c, "bad").Snapshot.Error)

	// The failing panel keeps its cadence.
	c.TickSync(ctx, "bad")
	assert.Equal(t, 2, bad.callCount())
}

func TestProviderPanicIsFolded(t *testing.T) {
	c := newController(t, testConfig(manualPanel("p")),
		map[string]provider.Provider{"p": panicProvider{}})

	c.TickSync(context.Background(), "p")
	assert.Contains(t, view(t, c, "p").Snapshot.Error, "panicked")
}

func TestSnapshotSequenceIsMonotonic(t *testing.T) {
	c := newController(t, testConfig(manualPanel("p")),
		map[string]provider.Provider{"p": &stubProvider{}})

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		c.TickSync(ctx, "p")
		assert.Equal(t, uint64(i), view(t, c, "p").Snapshot.Seq)
	}
}

func TestTickSetsVisualFeedback(t *testing.T) {
	c := newController(t, testConfig(manualPanel("p")),
		map[string]provider.Provider{"p": &stubProvider{}})

	c.TickSync(context.Background(), "p")
	v := view(t, c, "p")
	assert.False(t, v.Visual.IsRunning)
	assert.True(t, v.Visual.JustRefreshed)
	assert.True(t, v.Visual.JustCompleted)
}

func TestFlashClears(t *testing.T) {
	c := newController(t, testConfig(manualPanel("p")),
		map[string]provider.Provider{"p": &stubProvider{}})
	c.flash = 20 * time.Millisecond

	c.TickSync(context.Background(), "p")
	require.True(t, view(t, c, "p").Visual.JustRefreshed)

	require.Eventually(t, func() bool {
		return !view(t, c, "p").Visual.JustRefreshed
	}, time.Second, 5*time.Millisecond)
}

func TestRunOnceFetchesEveryPanelExactlyOnce(t *testing.T) {
	a := &stubProvider{}
	b := &stubProvider{}
	c := newController(t,
		testConfig(autoPanel("a", 5*time.Second), manualPanel("b")),
		map[string]provider.Provider{"a": a, "b": b})

	c.RunOnce(context.Background())

	assert.Equal(t, 1, a.callCount())
	assert.Equal(t, 1, b.callCount())
	assert.Equal(t, uint64(1), view(t, c, "a").Snapshot.Seq)
}

func TestHandleInput(t *testing.T) {
	s := &stubProvider{}
	c := newController(t, testConfig(manualPanel("tests")),
		map[string]provider.Provider{"tests": s})

	ctx := context.Background()
	assert.True(t, c.HandleInput(ctx, 'q'))
	assert.True(t, c.HandleInput(ctx, 3)) // Ctrl+C

	assert.False(t, c.HandleInput(ctx, 'r'))
	require.Eventually(t, func() bool { return s.callCount() >= 1 },
		time.Second, 5*time.Millisecond)

	// 't' was derived as the panel's hotkey.
	before := s.callCount()
	assert.False(t, c.HandleInput(ctx, 't'))
	require.Eventually(t, func() bool { return s.callCount() > before },
		time.Second, 5*time.Millisecond)
}

func TestDisabledPanelIsSkipped(t *testing.T) {
	off := false
	cfg := testConfig(
		config.Panel{Name: "on", Type: config.TypeCustom, Command: "true"},
		config.Panel{Name: "off", Type: config.TypeCustom, Command: "true", Enabled: &off},
	)
	c := newController(t, cfg, map[string]provider.Provider{"on": &stubProvider{}})

	require.Len(t, c.Views(), 1)
	assert.Equal(t, "on", c.Views()[0].Name)
}

func TestMissingProviderFailsConstruction(t *testing.T) {
	_, err := New(testConfig(manualPanel("p")), map[string]provider.Provider{}, nil)
	assert.Error(t, err)
}

func TestInitStoresPlaceholderImmediately(t *testing.T) {
	c := newController(t, testConfig(manualPanel("p")),
		map[string]provider.Provider{"p": &stubProvider{res: provider.Result{Lines: []string{"data"}}}})

	c.Init(context.Background())

	// A render-able snapshot exists even if the first fetch has not
	// landed yet.
	v := view(t, c, "p")
	assert.NotEmpty(t, v.Snapshot.Lines)
}
