package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// reloadDelay coalesces the bursts of events editors produce on save.
const reloadDelay = 200 * time.Millisecond

// Watch reloads the config file at path whenever it changes and passes every
// successfully loaded configuration to onChange. Invalid files are logged and
// skipped, leaving the previous configuration in effect.
//
// The parent directory is watched rather than the file, so editors that save
// by renaming a temp file over the original are picked up. Watch blocks until
// ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	target, err := filepath.Abs(expanded)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDelay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("config watcher error")

		case <-timer.C:
			cfg, err := Load(target)
			if err != nil {
				log.WithError(err).WithField("path", target).Warn("ignoring invalid config")
				continue
			}
			log.WithField("path", target).Info("config reloaded")
			onChange(cfg)
		}
	}
}
