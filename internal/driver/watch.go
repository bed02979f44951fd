package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"stripgen/internal/trace"
)

// DefaultDebounce batches bursts of writes (a generator run) into one pass.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	StripOptions
	Debounce time.Duration
	// OnBatch receives the results of every pass, including the initial one.
	OnBatch func([]StripResult)
}

// Watch strips roots once, then again whenever matching files below them are
// written. It returns when ctx is done. Every root must be a directory.
func Watch(ctx context.Context, roots []string, opts WatchOptions) error {
	if len(roots) == 0 {
		return ErrNoInputs
	}
	if opts.Check {
		return errors.New("watch does not support check mode")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	cleanRoots := make([]string, 0, len(roots))
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("watch %s: not a directory", root)
		}
		root = filepath.Clean(root)
		if err := addDirs(watcher, root, opts.OutDir); err != nil {
			return err
		}
		cleanRoots = append(cleanRoots, root)
	}

	results, err := StripPaths(ctx, cleanRoots, opts.StripOptions)
	if err != nil {
		return err
	}
	report(opts.OnBatch, results)

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			trace.Error(ctx, "watch", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			// каталог вывода внутри корня создаётся первым же проходом
			if within(ev.Name, opts.OutDir) {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				// новый каталог: подписываемся и подбираем уже лежащие файлы
				if err := addDirs(watcher, ev.Name, opts.OutDir); err != nil {
					trace.Error(ctx, "watch", err)
				}
				_ = filepath.WalkDir(ev.Name, func(path string, d fs.DirEntry, err error) error {
					switch {
					case err != nil:
					case d.IsDir() && within(path, opts.OutDir):
						return filepath.SkipDir
					case d.Type().IsRegular():
						pending[path] = struct{}{}
					}
					return nil
				})
			} else {
				pending[filepath.Clean(ev.Name)] = struct{}{}
			}
			timer.Reset(debounce)
		case <-timer.C:
			targets := watchTargets(cleanRoots, pending, opts.StripOptions)
			clear(pending)
			if len(targets) == 0 {
				continue
			}
			trace.Point(ctx, trace.ScopePhase, "watch_batch", fmt.Sprintf("%d files", len(targets)))
			results, err := stripTargets(ctx, targets, opts.StripOptions, StageStrip)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			report(opts.OnBatch, results)
		}
	}
}

func report(fn func([]StripResult), results []StripResult) {
	if fn != nil {
		fn(results)
	}
}

// addDirs watches dir and every directory below it, except outDir.
func addDirs(w *fsnotify.Watcher, dir, outDir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if outDir != "" && sameDir(path, outDir) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// watchTargets maps changed files back to the root they were found under and
// applies the include and exclude filters.
func watchTargets(roots []string, changed map[string]struct{}, opts StripOptions) []target {
	var targets []target
	for path := range changed {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		// временные файлы атомарной записи
		if strings.Contains(filepath.Base(path), ".tmp-") || within(path, opts.OutDir) {
			continue
		}
		root, rel, ok := ownerRoot(roots, path)
		if !ok || !selected(opts.Include, opts.Exclude, filepath.ToSlash(rel)) {
			continue
		}
		out, err := outputPath(root, path, opts.OutDir)
		if err != nil {
			continue
		}
		targets = append(targets, target{in: path, out: out})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].in < targets[j].in })
	return targets
}

// ownerRoot picks the longest root containing path.
func ownerRoot(roots []string, path string) (root, rel string, ok bool) {
	for _, r := range roots {
		candidate, err := filepath.Rel(r, path)
		if err != nil || candidate == ".." || strings.HasPrefix(candidate, ".."+string(filepath.Separator)) {
			continue
		}
		if !ok || len(r) > len(root) {
			root, rel, ok = r, candidate, true
		}
	}
	return root, rel, ok
}
