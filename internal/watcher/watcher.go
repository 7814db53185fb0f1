// Package watcher follows the agent session directory with fsnotify so
// the assistant panel can refresh the moment a log grows, instead of
// waiting out its interval.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/neochoon/agenthud/internal/core/model"
	"github.com/neochoon/agenthud/internal/util"
)

// debounceWindow coalesces the write bursts an appending agent
// produces into a single event.
const debounceWindow = 500 * time.Millisecond

// SessionWatcher emits one FileEvent per burst of .jsonl changes under
// the session directory, subdirectories included (sub-agent logs live
// one level down).
type SessionWatcher struct {
	watcher  *fsnotify.Watcher
	events   chan model.FileEvent
	stop     chan struct{}
	debounce time.Duration
}

func NewSessionWatcher(dir string) (*SessionWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	sw := &SessionWatcher{
		watcher:  fsw,
		events:   make(chan model.FileEvent, 16),
		stop:     make(chan struct{}),
		debounce: debounceWindow,
	}

	if err := sw.addTree(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	go sw.run()
	return sw, nil
}

// addTree registers dir and every directory below it. Directories
// created later are picked up in run.
func (sw *SessionWatcher) addTree(dir string) error {
	// Watch the root directly so a missing directory fails construction
	// instead of being silently skipped by the walk.
	if err := sw.watcher.Add(dir); err != nil {
		return err
	}
	return filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return sw.watcher.Add(p)
		}
		return nil
	})
}

func (sw *SessionWatcher) run() {
	var (
		timer   *time.Timer
		pending model.FileEvent
		fire    <-chan time.Time
	)

	for {
		select {
		case <-sw.stop:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// New sub-agent directory; watch it too.
					sw.watcher.Add(event.Name)
					continue
				}
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".jsonl") {
				continue
			}
			pending = model.FileEvent{Path: event.Name, Operation: event.Op.String()}
			if timer == nil {
				timer = time.NewTimer(sw.debounce)
			} else {
				timer.Stop()
				timer.Reset(sw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case sw.events <- pending:
			default:
				// A stale undelivered event carries no extra information.
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			util.LogWarnf("session watch error: %v", err)
		}
	}
}

// Events returns the debounced change channel.
func (sw *SessionWatcher) Events() <-chan model.FileEvent {
	return sw.events
}

func (sw *SessionWatcher) Close() error {
	close(sw.stop)
	return sw.watcher.Close()
}
