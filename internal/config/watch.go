package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and calls onChange with the newly loaded Config each
// time the file is written. It runs until ctx is cancelled. A failed reload
// is logged and the previous config stays active.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Config)) error {
	logger = logger.With(slog.String("component", "config_watcher"))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	logger.InfoContext(ctx, "watching config for changes", slog.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// atomic saves arrive as Create after a rename
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				logger.ErrorContext(ctx, "config reload failed, keeping previous config",
					slog.String("path", path),
					slog.String("error", err.Error()))
				continue
			}

			logger.InfoContext(ctx, "config reloaded", slog.String("path", path))
			onChange(cfg)

			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.ErrorContext(ctx, "config watcher error", slog.String("error", err.Error()))
		}
	}
}
