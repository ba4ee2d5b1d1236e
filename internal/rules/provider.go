package rules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Provider owns the current rule snapshot. Classification reads whatever
// snapshot is current when it starts; a reload builds a complete new Store
// and swaps the pointer, never mutating a snapshot in place.
type Provider struct {
	dir     string
	logger  zerolog.Logger
	current atomic.Pointer[Store]
}

// NewProvider loads the rules directory and returns a provider holding the
// initial snapshot.
func NewProvider(dir string, logger zerolog.Logger) (*Provider, error) {
	store, err := Load(dir, logger)
	if err != nil {
		return nil, err
	}

	p := &Provider{dir: dir, logger: logger}
	p.current.Store(store)
	return p, nil
}

// Snapshot returns the current immutable rule store.
func (p *Provider) Snapshot() *Store {
	return p.current.Load()
}

// Reload rebuilds the store from disk and swaps it in. On failure the
// previous snapshot stays current.
func (p *Provider) Reload() error {
	store, err := Load(p.dir, p.logger)
	if err != nil {
		return err
	}
	p.current.Store(store)
	return nil
}

// Watch reloads the rule set when files under the rules directory change.
// Events are debounced so an editor writing several files triggers a single
// reload. Blocks until the context is cancelled.
func (p *Provider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create rules watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := p.watchTree(watcher); err != nil {
		return err
	}

	// Debounce timer; nil channel until the first event arrives.
	var pending *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(250 * time.Millisecond)
				fire = pending.C
			} else {
				if !pending.Stop() {
					<-pending.C
				}
				pending.Reset(250 * time.Millisecond)
			}
		case <-fire:
			pending = nil
			fire = nil
			if err := p.Reload(); err != nil {
				p.logger.Warn().Err(err).Msg("rules reload failed, keeping previous snapshot")
				continue
			}
			// New format directories need watching too.
			if err := p.watchTree(watcher); err != nil {
				p.logger.Warn().Err(err).Msg("re-registering rules watches failed")
			}
			p.logger.Info().Str("dir", p.dir).Msg("rules reloaded")
		case watchErr := <-watcher.Errors:
			p.logger.Warn().Err(watchErr).Msg("rules watcher error")
		}
	}
}

// watchTree registers the rules directory and each format subtree.
// Re-adding an already watched path is a no-op for fsnotify.
func (p *Provider) watchTree(watcher *fsnotify.Watcher) error {
	if err := watcher.Add(p.dir); err != nil {
		return fmt.Errorf("watch %s: %w", p.dir, err)
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return fmt.Errorf("read rules directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		formatDir := filepath.Join(p.dir, entry.Name())
		for _, sub := range []string{formatDir, filepath.Join(formatDir, "archetypes"), filepath.Join(formatDir, "fallbacks")} {
			if _, statErr := os.Stat(sub); statErr != nil {
				continue
			}
			if err := watcher.Add(sub); err != nil {
				return fmt.Errorf("watch %s: %w", sub, err)
			}
		}
	}
	return nil
}
