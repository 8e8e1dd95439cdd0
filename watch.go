package icongen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/k1LoW/errors"
)

// Watcher calls a function whenever one of a set of files is written.
// Parent directories are watched so that editors replacing a file by rename are noticed.
type Watcher struct {
	w      *fsnotify.Watcher
	files  map[string]struct{}
	dirs   map[string]struct{}
	logger *slog.Logger
}

func NewWatcher(files []string, logger *slog.Logger) (_ *Watcher, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if len(files) == 0 {
		return nil, fmt.Errorf("nothing to watch")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	fw := &Watcher{w: w, files: map[string]struct{}{}, dirs: map[string]struct{}{}, logger: logger}
	for _, f := range files {
		if err := fw.Add(f); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return fw, nil
}

// Add starts watching file. It is not safe for concurrent use; call it before Run or
// from the function passed to Run.
func (fw *Watcher) Add(file string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if _, ok := fw.files[abs]; ok {
		return nil
	}
	dir := filepath.Dir(abs)
	if _, ok := fw.dirs[dir]; !ok {
		if err := fw.w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		fw.dirs[dir] = struct{}{}
	}
	fw.files[abs] = struct{}{}
	return nil
}

// Run blocks until ctx is done, calling fn after each change. Errors from fn are logged
// and do not stop the watcher.
func (fw *Watcher) Run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	defer fw.w.Close()
	fw.logger.Info("watching for changes", slog.Int("files", len(fw.files)))
	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("stopped watching")
			return nil
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if _, ok := fw.files[filepath.Clean(ev.Name)]; !ok {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fw.logger.Debug("file changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if err := fn(ctx); err != nil {
				fw.logger.Error("failed to regenerate icon", slog.String("error", err.Error()))
			} else {
				fw.logger.Info("regenerated icon")
			}
			fw.logger.Info("watching for changes", slog.Int("files", len(fw.files)))
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}
