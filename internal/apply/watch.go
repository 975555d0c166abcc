package apply

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/srclift/srep/rewrite"
	"github.com/srclift/srep/scanner"
)

// debounceDelay lets editors finish multi-step saves before the file is
// re-read.
const debounceDelay = 100 * time.Millisecond

// watchTarget pairs a watched root with the scanner filter for files under
// it.
type watchTarget struct {
	root string
	scan *scanner.Scanner
}

// Watch re-runs the rules in dry-run mode whenever a candidate file under
// paths changes and passes each changed file's outcome to report. Newly
// created directories are picked up. Watch blocks until ctx is cancelled
// and returns the context's error.
func Watch(ctx context.Context, logger *zap.Logger, rules []rewrite.Rule, paths []string, opts Options, report func(FileResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	var scanOpts []scanner.Option
	if len(opts.Include) > 0 {
		scanOpts = append(scanOpts, scanner.WithInclude(opts.Include...))
	}

	targets := make([]watchTarget, 0, len(paths))
	for _, path := range paths {
		if err := addTree(watcher, path); err != nil {
			return err
		}
		targets = append(targets, watchTarget{root: path, scan: scanner.New(path, scanOpts...)})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					if err := addTree(watcher, event.Name); err != nil && logger != nil {
						logger.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
				continue
			}
			if !matchesAny(targets, event.Name) {
				continue
			}
			time.Sleep(debounceDelay)
			handleFileEvent(logger, rules, event.Name, report)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if logger != nil {
				logger.Warn("watch error", zap.Error(err))
			}
		}
	}
}

func handleFileEvent(logger *zap.Logger, rules []rewrite.Rule, path string, report func(FileResult)) {
	content, err := os.ReadFile(path)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to read changed file", zap.String("file", path), zap.Error(err))
		}
		return
	}
	output, results, err := rewrite.ApplyRules(string(content), rules)
	if err != nil {
		if logger != nil {
			logger.Warn("rules failed on changed file", zap.String("file", path), zap.Error(err))
		}
		return
	}
	res := FileResult{Path: path, Output: output, Results: results}
	if res.ChangeCount() > 0 {
		report(res)
	}
}

// matchesAny reports whether path belongs to a watched root and passes
// that root's file filter. A root that is itself a file matches only
// exactly.
func matchesAny(targets []watchTarget, path string) bool {
	for _, target := range targets {
		if path == target.root {
			return true
		}
		if strings.HasPrefix(path, target.root+string(filepath.Separator)) && target.scan.Matches(path) {
			return true
		}
	}
	return false
}

// addTree registers root and every non-hidden directory beneath it with
// the watcher. A root that is a regular file is registered directly.
func addTree(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", root, err)
	}
	if !info.IsDir() {
		return watcher.Add(root)
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
