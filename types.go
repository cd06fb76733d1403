package extractwind

import (
	"io"
	"os"
	"time"

	"github.com/khalilKhassep/extractwind/internal/extract"
	"github.com/khalilKhassep/extractwind/internal/ident"
	"github.com/khalilKhassep/extractwind/internal/mapping"
)

// Defaults shared by the library and the CLI.
const (
	DefaultViewPath      = "./resources/views"
	DefaultOutputPath    = "./resources/views_modified"
	DefaultExtractedPath = "./resources/views_extracted"
	DefaultSuffix        = ".blade.php"
	DefaultDebounce      = 200 * time.Millisecond
)

// DefaultExclude skips entry-point and wizard templates.
var DefaultExclude = []string{"index", "wizzard-html"}

// Config holds extraction configuration.
type Config struct {
	ViewPath      string         // root of the template tree
	OutputPath    string         // rewritten templates, mirroring ViewPath
	ExtractedPath string         // flat directory of mapping files
	Suffix        string         // template file suffix, e.g. ".blade.php"
	Exclude       []string       // substrings of file names to skip; nil means DefaultExclude
	Ignore        []string       // gitignore-style lines, relative to ViewPath
	Only          []string       // doublestar patterns, relative to ViewPath; empty selects all
	IDAttribute   string         // attribute holding the identifier
	IDPrefix      string         // prefix for generated identifiers
	IDStrategy    ident.Strategy // random or sequential
	Format        mapping.Format // mapping file format
	Debounce      time.Duration  // watch mode: quiet period before a changed file is processed
	Verbose       bool           // print progress lines
	Stdout        io.Writer      // progress output, os.Stdout when nil
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		ViewPath:      DefaultViewPath,
		OutputPath:    DefaultOutputPath,
		ExtractedPath: DefaultExtractedPath,
		Suffix:        DefaultSuffix,
		Exclude:       append([]string(nil), DefaultExclude...),
		IDAttribute:   extract.DefaultAttr,
		IDPrefix:      ident.DefaultPrefix,
		IDStrategy:    ident.StrategyRandom,
		Format:        mapping.FormatJSON,
		Debounce:      DefaultDebounce,
	}
}

// withDefaults fills zero values. An explicitly empty Exclude slice is kept,
// so callers can disable the default exclusions.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ViewPath == "" {
		c.ViewPath = d.ViewPath
	}
	if c.OutputPath == "" {
		c.OutputPath = d.OutputPath
	}
	if c.ExtractedPath == "" {
		c.ExtractedPath = d.ExtractedPath
	}
	if c.Suffix == "" {
		c.Suffix = d.Suffix
	}
	if c.Exclude == nil {
		c.Exclude = d.Exclude
	}
	if c.IDAttribute == "" {
		c.IDAttribute = d.IDAttribute
	}
	if c.IDPrefix == "" {
		c.IDPrefix = d.IDPrefix
	}
	if c.IDStrategy == "" {
		c.IDStrategy = d.IDStrategy
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.Debounce <= 0 {
		c.Debounce = d.Debounce
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	return c
}

// ScanStats tracks template discovery.
type ScanStats struct {
	FilesDiscovered int // files ending with the suffix
	FilesSelected   int // files left after filtering
	FilesSkipped    int // files dropped by Exclude, Ignore or Only
}

// FileResult is the outcome of processing one template.
type FileResult struct {
	Path        string              // template path under ViewPath
	OutputPath  string              // rewritten template
	MappingPath string              // mapping file
	Base        string              // template name without suffix
	Elements    int                 // class-bearing elements rewritten
	Generated   int                 // identifiers created in this run
	Reused      int                 // identifiers kept from the input
	Discarded   map[string][]string // identifier to invalid tokens dropped from its class list
	Duplicates  []string            // identifiers found on more than one element
	Unchanged   bool                // watch mode: content hash matched the last run
}

// ExtractResult summarizes an extraction run.
type ExtractResult struct {
	Stats     ScanStats
	Files     []*FileResult
	Elements  int
	Generated int
	Reused    int
	Warnings  []string
}
