package extractwind

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is read from the root of the view tree when present.
const IgnoreFileName = ".extractwindignore"

// selector decides which files under the view root are templates to process.
type selector struct {
	root    string
	suffix  string
	exclude []string
	ignore  *ignore.GitIgnore
	only    []string
	skipDir map[string]bool
}

func newSelector(config Config) (*selector, error) {
	s := &selector{
		root:    config.ViewPath,
		suffix:  config.Suffix,
		exclude: config.Exclude,
		only:    config.Only,
		skipDir: make(map[string]bool),
	}

	for _, pattern := range config.Only {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
	}

	// Gracefully degrade: no ignore file and no lines means nothing is ignored
	ignorePath := filepath.Join(config.ViewPath, IgnoreFileName)
	if _, err := os.Stat(ignorePath); err == nil {
		gi, err := ignore.CompileIgnoreFileAndLines(ignorePath, config.Ignore...)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", IgnoreFileName, err)
		}
		s.ignore = gi
	} else if len(config.Ignore) > 0 {
		s.ignore = ignore.CompileIgnoreLines(config.Ignore...)
	}

	// Output trees nested inside the view root must not be re-read
	for _, dir := range []string{config.OutputPath, config.ExtractedPath} {
		if abs, err := filepath.Abs(dir); err == nil {
			s.skipDir[abs] = true
		}
	}
	return s, nil
}

// isTemplate reports whether name carries the template suffix.
func (s *selector) isTemplate(name string) bool {
	return strings.HasSuffix(name, s.suffix)
}

// excluded reports whether the file name contains an exclusion substring.
func (s *selector) excluded(name string) bool {
	for _, ex := range s.exclude {
		if ex != "" && strings.Contains(name, ex) {
			return true
		}
	}
	return false
}

// keep applies every filter to a template path.
func (s *selector) keep(path string) bool {
	if s.excluded(filepath.Base(path)) {
		return false
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	if s.ignore != nil && s.ignore.MatchesPath(rel) {
		return false
	}
	if len(s.only) == 0 {
		return true
	}
	for _, pattern := range s.only {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}

// skip reports whether a directory is one of the output trees.
func (s *selector) skip(dir string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return s.skipDir[abs]
}

// FindTemplates walks config.ViewPath depth-first in lexical order and
// returns every template left after filtering. The whole list is built
// before any file is processed.
func FindTemplates(config Config) ([]string, ScanStats, error) {
	config = config.withDefaults()
	var stats ScanStats

	sel, err := newSelector(config)
	if err != nil {
		return nil, stats, err
	}

	var files []string
	err = filepath.WalkDir(config.ViewPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != config.ViewPath && sel.skip(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !sel.isTemplate(d.Name()) {
			return nil
		}

		stats.FilesDiscovered++
		if !sel.keep(path) {
			stats.FilesSkipped++
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk %s: %w", config.ViewPath, err)
	}

	stats.FilesSelected = len(files)
	return files, stats, nil
}
