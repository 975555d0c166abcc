// Package scanner collects candidate source files for matching and rewriting.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize is the size ceiling applied when no explicit limit is
// configured. Matching cost grows with input size, so larger files are
// skipped unless the caller raises or disables the limit.
const DefaultMaxFileSize int64 = 1 << 20

// defaultExtensions lists the file types scanned when no include globs are
// given.
var defaultExtensions = map[string]bool{
	".c":     true,
	".cpp":   true,
	".cs":    true,
	".gno":   true,
	".go":    true,
	".h":     true,
	".hpp":   true,
	".java":  true,
	".js":    true,
	".jsx":   true,
	".kt":    true,
	".php":   true,
	".py":    true,
	".rb":    true,
	".rs":    true,
	".swift": true,
	".ts":    true,
	".tsx":   true,
}

// FileInfo describes one candidate file found by a scan.
type FileInfo struct {
	Path string
	Size int64
}

// Scanner walks a root directory collecting files that pass its filters.
type Scanner struct {
	root    string
	include []string
	maxSize int64
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithInclude restricts the scan to paths matching any of the given
// doublestar globs. Globs are matched against slash-separated paths
// relative to the scan root; setting any glob replaces the default
// extension filter.
func WithInclude(globs ...string) Option {
	return func(s *Scanner) {
		s.include = append(s.include, globs...)
	}
}

// WithMaxFileSize sets the per-file size ceiling in bytes. A negative
// value disables the ceiling.
func WithMaxFileSize(n int64) Option {
	return func(s *Scanner) {
		s.maxSize = n
	}
}

// New creates a Scanner rooted at root.
func New(root string, opts ...Option) *Scanner {
	s := &Scanner{
		root:    root,
		maxSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the root and returns every candidate file. A root that is a
// regular file is returned as the single candidate regardless of filters.
// Hidden directories are not descended into.
func (s *Scanner) Scan() ([]FileInfo, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return []FileInfo{{Path: s.root, Size: info.Size()}}, nil
	}

	var files []FileInfo
	err = filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != s.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.Matches(path) {
			return nil
		}
		if s.maxSize >= 0 && info.Size() > s.maxSize {
			return nil
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.root, err)
	}
	return files, nil
}

// Matches reports whether a single path passes the scanner's include
// filter. The size ceiling is not consulted.
func (s *Scanner) Matches(path string) bool {
	if len(s.include) == 0 {
		return defaultExtensions[filepath.Ext(path)]
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, glob := range s.include {
		if ok, err := doublestar.Match(glob, rel); err == nil && ok {
			return true
		}
	}
	return false
}
