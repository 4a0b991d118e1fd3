package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yosuahres/developmentVRSkripsi/internal/loader"
	"github.com/yosuahres/developmentVRSkripsi/pkg/watcher"
)

// setupFileWatcher watches every file the case depends on, OpenSCAD includes too
func (app *App) setupFileWatcher(ctx context.Context) error {
	files, err := loader.Sources(app.opts.Case)
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(500*time.Millisecond, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Watch(files...); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch files: %w", err)
	}
	app.logger.Info("watching for changes", "files", len(files))

	go func() {
		err := fw.Run(ctx, func(path string) {
			app.logger.Info("file changed", "path", path)
			app.reloadRequested.Store(true)
		})
		if err != nil && ctx.Err() == nil {
			app.logger.Error("file watcher stopped", "error", err)
		}
	}()
	app.FileWatch.fileWatcher = fw
	return nil
}

// reloadModel starts re-reading the case in the background
func (app *App) reloadModel(ctx context.Context) {
	if app.FileWatch.reloader != nil {
		return
	}
	app.FileWatch.reloader = loader.New(app.opts.Case, app.logger)
	app.FileWatch.loadingStartTime = time.Now()
	app.FileWatch.reloader.Start(ctx)
}

// applyLoadedModel swaps in a finished reload; markers and rulers are kept.
// Must be called on the main thread.
func (app *App) applyLoadedModel() {
	l := app.FileWatch.reloader
	if l == nil {
		return
	}
	switch l.State() {
	case loader.Loaded:
		c, _ := l.Result()
		swapped := app.ws.Reload(c)
		app.syncMeshes()
		app.setStatus(fmt.Sprintf("Reloaded %d part(s) in %.2fs", swapped, time.Since(app.FileWatch.loadingStartTime).Seconds()))
	case loader.Failed:
		_, err := l.Result()
		app.setStatus(fmt.Sprintf("Reload failed: %v", err))
	default:
		return
	}
	app.FileWatch.reloader = nil
}

func (app *App) isLoading() bool {
	return app.FileWatch.reloader != nil
}
