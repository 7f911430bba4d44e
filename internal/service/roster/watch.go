package roster

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
)

// debounce window: roster files are usually replaced with a write-then-rename
// sequence that fires several events for one replacement.
const reloadDebounce = 500 * time.Millisecond

// Watch reloads the roster whenever the file is replaced, until the context
// is cancelled. The parent directory is watched rather than the file itself,
// because rename-based replacement detaches a watch on the file.
func (s *Service) Watch(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionRosterReload)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return wrap.Error(ctx, err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "watching roster file", "path", s.path)

	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer == nil {
				timer = time.AfterFunc(reloadDebounce, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(reloadDebounce)
			}

		case <-reload:
			timer = nil
			if err := s.Load(ctx); err != nil {
				s.l.Warn(ctx, "roster reload after file change failed", "err", err.Error())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.l.Warn(ctx, "roster watcher error", "err", err.Error())
		}
	}
}
