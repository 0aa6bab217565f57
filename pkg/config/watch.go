package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rubiojr/setsearch/pkg/log"
)

// Watch calls onChange with the reloaded configuration every time
// configPath changes, until ctx is done. Invalid configurations are passed
// as errors and the caller keeps the previous one. Editors replacing the
// file atomically are handled by re-adding it to the watcher.
func Watch(ctx context.Context, configPath string, onChange func(*Config, error)) error {
	logger := log.ForService("config")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config file watcher: %w", err)
	}
	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return fmt.Errorf("watching config file %s: %w", configPath, err)
	}
	logger.Infof("Watching config file for changes: %s", configPath)

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warnf("failed to close config file watcher: %v", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				logger.Debugf("config file changed: %s (event: %s)", event.Name, event.Op.String())

				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					// Small delay to ensure the new file is fully written
					time.Sleep(200 * time.Millisecond)

					if _, err := os.Stat(configPath); os.IsNotExist(err) {
						logger.Warnf("config file was removed and not replaced, skipping reload")
						continue
					}
					if err := watcher.Add(configPath); err != nil {
						logger.Warnf("failed to re-add config file to watcher: %v", err)
					}
				} else {
					time.Sleep(100 * time.Millisecond)
				}

				onChange(LoadConfig(configPath))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Errorf("config file watcher error: %v", err)
			}
		}
	}()
	return nil
}
