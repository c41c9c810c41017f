package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// scriptWatcher re-runs a script each time it changes on disk
type scriptWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	run      func()
	stdout   io.Writer
	stderr   io.Writer
}

// newScriptWatcher watches path. run is called once at start and again after
// every burst of changes has been quiet for debounce.
func newScriptWatcher(path string, debounce time.Duration, run func(), stdout, stderr io.Writer) (*scriptWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors often save by replacing it.
	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return &scriptWatcher{
		watcher:  fsWatcher,
		path:     absPath,
		debounce: debounce,
		run:      run,
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

// Run runs the script, then re-runs it on changes until ctx is done.
func (w *scriptWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.logInfo("watching %s", w.path)
	w.run()

	// Stopped timer whose channel is drained, ready for Reset.
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.logInfo("changed: %s", w.path)
			w.run()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logError("watcher error: %v", err)
		}
	}
}

func (w *scriptWatcher) logInfo(format string, args ...any) {
	fmt.Fprintf(w.stdout, "[WATCH] "+format+"\n", args...)
}

func (w *scriptWatcher) logError(format string, args ...any) {
	fmt.Fprintf(w.stderr, "[WATCH ERROR] "+format+"\n", args...)
}

// watch runs path in a fresh interpreter now and after every change.
// Errors in the script are reported and watching continues.
func (c *cli) watch(path string) error {
	w, err := newScriptWatcher(path, c.cfg.Watch.Debounce, func() {
		c.runFile(path)
	}, c.stdout, c.stderr)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	return w.Run(c.ctx)
}
