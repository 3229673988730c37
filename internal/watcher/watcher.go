// Package watcher re-runs a job when the input file changes or on a cron
// schedule.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron"

	"github.com/jouaraujo/curry-company/internal/models"
)

// RunFunc is the job triggered by the watcher.
type RunFunc func(ctx context.Context) error

type Watcher struct {
	path     string
	schedule string
	onChange bool
	run      RunFunc
	log      *slog.Logger

	mu      sync.Mutex
	lastMod time.Time
}

func New(cfg models.WatchConfig, path string, run RunFunc, log *slog.Logger) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		schedule: cfg.Schedule,
		onChange: cfg.OnChange,
		run:      run,
		log:      log.With(slog.String("component", "watcher")),
	}
}

// Run blocks until ctx is done. Triggers that arrive while the job is running
// are coalesced into one follow-up run. A failing job is logged and the
// watcher keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	if w.schedule == "" && !w.onChange {
		return errors.New("watch needs a schedule or on_change")
	}

	triggers := make(chan string, 1)
	trigger := func(reason string) {
		select {
		case triggers <- reason:
		default:
		}
	}

	if w.schedule != "" {
		c := cron.New()
		if err := c.AddFunc(w.schedule, func() { trigger("schedule") }); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", w.schedule, err)
		}
		c.Start()
		defer c.Stop()
	}

	if w.onChange {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer fw.Close()

		if err := fw.Add(filepath.Dir(w.path)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", w.path, err)
		}
		go w.watchFile(fw, trigger)
	}

	w.log.Info("watching", "path", w.path, "schedule", w.schedule, "on_change", w.onChange)
	for {
		select {
		case <-ctx.Done():
			return nil
		case reason := <-triggers:
			w.log.Info("running report", "trigger", reason)
			if err := w.run(ctx); err != nil {
				w.log.Error("report failed", "error", err)
			}
		}
	}
}

func (w *Watcher) watchFile(fw *fsnotify.Watcher, trigger func(string)) {
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if w.modified() {
				trigger("file changed")
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", "error", err)
		}
	}
}

// modified reports whether the file's mtime moved since the last trigger.
func (w *Watcher) modified() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.lastMod) {
		return false
	}
	w.lastMod = info.ModTime()
	return true
}
