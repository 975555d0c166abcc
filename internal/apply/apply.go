// Package apply runs pattern matching and rule rewriting across file trees.
package apply

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/srclift/srep/rewrite"
	"github.com/srclift/srep/scanner"
)

// Options control file selection and how rewrites are applied.
type Options struct {
	// Include holds doublestar globs selecting files relative to each
	// scanned root. Empty means the scanner's default source extensions.
	Include []string

	// MaxFileSize overrides the scanner's size ceiling when non-zero.
	// Negative disables the ceiling.
	MaxFileSize int64

	// Workers bounds concurrent file processing. Zero means NumCPU.
	Workers int

	// Write persists rewritten files back to disk.
	Write bool
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// FileMatches holds one file's matches.
type FileMatches struct {
	Path    string          `json:"path"`
	Matches []rewrite.Match `json:"matches"`
}

// FileResult holds one file's rewrite outcome. Output is the full rewritten
// content; Written reports whether it was persisted.
type FileResult struct {
	Path    string               `json:"path"`
	Output  string               `json:"-"`
	Results []rewrite.RuleResult `json:"results"`
	Written bool                 `json:"written"`
}

// ChangeCount sums the changes across all rules.
func (r FileResult) ChangeCount() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Changes)
	}
	return n
}

// FindPaths matches pattern against every candidate file under paths and
// returns the per-file matches sorted by path. The pattern is validated
// before any file is read. Unreadable files are logged and skipped.
func FindPaths(ctx context.Context, logger *zap.Logger, pattern string, paths []string, opts Options) ([]FileMatches, error) {
	if _, err := rewrite.FindMatches("", pattern); err != nil {
		return nil, err
	}
	files, err := collectFiles(paths, opts)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results []FileMatches
	)
	err = forEachFile(ctx, logger, files, opts, func(path string, content []byte) error {
		found, err := rewrite.FindMatches(string(content), pattern)
		if err != nil {
			return err
		}
		if len(found.Matches) == 0 {
			return nil
		}
		mu.Lock()
		results = append(results, FileMatches{Path: path, Matches: found.Matches})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// RewritePaths applies the rules to every candidate file under paths and
// returns the per-file outcomes sorted by path, omitting files with no
// changes. Files are written back only when opts.Write is set and the
// output differs from the input.
func RewritePaths(ctx context.Context, logger *zap.Logger, rules []rewrite.Rule, paths []string, opts Options) ([]FileResult, error) {
	files, err := collectFiles(paths, opts)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results []FileResult
	)
	err = forEachFile(ctx, logger, files, opts, func(path string, content []byte) error {
		output, ruleResults, err := rewrite.ApplyRules(string(content), rules)
		if err != nil {
			return err
		}
		res := FileResult{Path: path, Output: output, Results: ruleResults}
		if res.ChangeCount() == 0 {
			return nil
		}
		if opts.Write && output != string(content) {
			if err := writeBack(path, output); err != nil {
				return err
			}
			res.Written = true
		}
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// collectFiles expands each root through the scanner, deduplicating paths
// that appear under more than one root.
func collectFiles(paths []string, opts Options) ([]string, error) {
	var scanOpts []scanner.Option
	if len(opts.Include) > 0 {
		scanOpts = append(scanOpts, scanner.WithInclude(opts.Include...))
	}
	if opts.MaxFileSize != 0 {
		scanOpts = append(scanOpts, scanner.WithMaxFileSize(opts.MaxFileSize))
	}

	seen := make(map[string]bool)
	var files []string
	for _, path := range paths {
		infos, err := scanner.New(path, scanOpts...).Scan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		for _, info := range infos {
			if !seen[info.Path] {
				seen[info.Path] = true
				files = append(files, info.Path)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// forEachFile fans the files out to a bounded worker pool. Read failures
// are logged and skipped; the first processing error cancels the batch.
func forEachFile(ctx context.Context, logger *zap.Logger, files []string, opts Options, fn func(path string, content []byte) error) error {
	if logger != nil {
		logger.Debug("processing files", zap.Int("files", len(files)), zap.Int("workers", opts.workers()))
	}
	bar := newBar(len(files))
	sem := make(chan struct{}, opts.workers())
	errChan := make(chan error, len(files))
	var wg sync.WaitGroup

	for _, path := range files {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		default:
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()
			defer barAdd(bar)

			content, err := os.ReadFile(fp)
			if err != nil {
				if logger != nil {
					logger.Warn("skipping unreadable file", zap.String("file", fp), zap.Error(err))
				}
				return
			}
			if err := fn(fp, content); err != nil {
				errChan <- fmt.Errorf("%s: %w", fp, err)
			}
		}(path)
	}
	wg.Wait()
	close(errChan)
	for err := range errChan {
		return err
	}
	return nil
}

// newBar builds the progress bar, or nil when there is nothing worth
// animating.
func newBar(total int) *progressbar.ProgressBar {
	if total < 2 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Scanning files..."),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func barAdd(bar *progressbar.ProgressBar) {
	if bar != nil {
		bar.Add(1)
	}
}

// writeBack persists output, preserving the file's current permissions.
func writeBack(path, output string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(output), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
