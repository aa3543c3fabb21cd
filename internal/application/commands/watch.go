package commands

import (
	"context"
	"log/slog"

	"meshbridge/internal/application"
	"meshbridge/internal/ports"
)

// WatchCommand keeps the mapping file, catalog and cache in sync with the
// materials tree until its context is cancelled
type WatchCommand struct {
	rebuild *BuildIndexCommand
	watcher ports.TreeWatcher
	cache   *application.MappingCache
	logger  *slog.Logger

	// OnRebuild is called after each successful rebuild
	OnRebuild func(*BuildIndexResult)
}

// NewWatchCommand creates a new WatchCommand
func NewWatchCommand(rebuild *BuildIndexCommand, watcher ports.TreeWatcher, cache *application.MappingCache, logger *slog.Logger) *WatchCommand {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchCommand{
		rebuild: rebuild,
		watcher: watcher,
		cache:   cache,
		logger:  logger,
	}
}

// Execute rebuilds once, then after every change burst. A failed rebuild
// keeps the previous mapping.
func (c *WatchCommand) Execute(ctx context.Context) error {
	if err := c.rebuild.Validate(); err != nil {
		return err
	}
	if _, err := c.runOnce(ctx); err != nil {
		return err
	}

	return c.watcher.Watch(ctx, c.rebuild.Root, func(ctx context.Context) {
		if _, err := c.runOnce(ctx); err != nil {
			c.logger.Error("rebuild failed, keeping previous mapping", "error", err)
		}
	})
}

func (c *WatchCommand) runOnce(ctx context.Context) (*BuildIndexResult, error) {
	result, err := c.rebuild.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Swap(result.Mapping)
	}
	c.logger.Info("mapping rebuilt", "materials", result.Mapping.Len(), "skipped", result.ScanStats.Skipped)
	if c.OnRebuild != nil {
		c.OnRebuild(result)
	}
	return result, nil
}
