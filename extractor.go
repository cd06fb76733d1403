package extractwind

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khalilKhassep/extractwind/internal/dom"
	"github.com/khalilKhassep/extractwind/internal/extract"
	"github.com/khalilKhassep/extractwind/internal/ident"
	"github.com/khalilKhassep/extractwind/internal/mapping"
)

// Extract is the main entry point: it finds every template under
// config.ViewPath, rewrites it into config.OutputPath and writes its mapping
// file into config.ExtractedPath. Files are processed one at a time and the
// first error stops the run; files written before it are left in place.
func Extract(config Config) (*ExtractResult, error) {
	config, err := prepare(config)
	if err != nil {
		return nil, err
	}

	// 1. Discover templates
	files, stats, err := FindTemplates(config)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	result := &ExtractResult{Stats: stats}

	if config.Verbose {
		fmt.Fprintf(config.Stdout, "Found %d templates (%d skipped)\n", stats.FilesSelected, stats.FilesSkipped)
	}

	// 2. Rewrite each one
	seenBase := make(map[string]string)
	for _, path := range files {
		fr, err := ExtractFile(path, config)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", path, err)
		}
		result.add(fr)

		if first, ok := seenBase[fr.Base]; ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%s and %s share the mapping file %s; the later one wins",
				first, path, filepath.Base(fr.MappingPath)))
		} else {
			seenBase[fr.Base] = path
		}
	}

	return result, nil
}

// add folds a file result into the run totals.
func (r *ExtractResult) add(fr *FileResult) {
	r.Files = append(r.Files, fr)
	r.Elements += fr.Elements
	r.Generated += fr.Generated
	r.Reused += fr.Reused
	for _, id := range fr.Duplicates {
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"%s: identifier %q is used by more than one element; only the last record is kept", fr.Path, id))
	}
}

// ExtractFile rewrites a single template. path must lie under
// config.ViewPath so its output location can be mirrored.
func ExtractFile(path string, config Config) (*FileResult, error) {
	config, err := prepare(config)
	if err != nil {
		return nil, err
	}

	doc, err := dom.Load(path)
	if err != nil {
		return nil, err
	}
	return rewriteDocument(path, doc, config)
}

// rewriteDocument runs the extraction on a parsed template and writes both
// outputs.
func rewriteDocument(path string, doc *dom.Document, config Config) (*FileResult, error) {
	base := extract.FileBase(path, config.Suffix)

	gen, err := ident.New(config.IDStrategy, config.IDPrefix, extract.ExistingIDs(doc, config.IDAttribute))
	if err != nil {
		return nil, err
	}

	res, err := extract.Run(doc, extract.Options{
		Attr:      config.IDAttribute,
		FileBase:  base,
		Generator: gen,
	})
	if err != nil {
		return nil, err
	}

	fr := &FileResult{
		Path:       path,
		Base:       base,
		Elements:   len(res.Changes),
		Generated:  res.Generated(),
		Reused:     res.Reused(),
		Duplicates: res.Duplicates,
	}
	for _, c := range res.Changes {
		if config.Verbose {
			fmt.Fprintf(config.Stdout, "Updated element <%s> with new class: %s\n", c.Tag, c.NewClass)
		}
		if len(c.Discarded) > 0 {
			if fr.Discarded == nil {
				fr.Discarded = make(map[string][]string)
			}
			fr.Discarded[c.ID] = c.Discarded
			if config.Verbose {
				fmt.Fprintf(config.Stdout, "  Dropped invalid classes: %s\n", strings.Join(c.Discarded, " "))
			}
		}
	}

	// 3. Write the rewritten template
	fr.OutputPath, err = outputPathFor(path, config)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(fr.OutputPath), 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if err := writeTemplate(fr.OutputPath, doc); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.Stdout, "Saved to %s\n", fr.OutputPath)
	}

	// 4. Write the mapping
	fr.MappingPath, err = mapping.Write(config.ExtractedPath, base, res.Mapping, config.Format)
	if err != nil {
		return nil, err
	}
	if config.Verbose {
		fmt.Fprintf(config.Stdout, "Extracted classes saved to %s\n", fr.MappingPath)
	}

	return fr, nil
}

// outputPathFor mirrors path from the view root into the output root.
func outputPathFor(path string, config Config) (string, error) {
	rel, err := relativeTo(config.ViewPath, path)
	if err != nil {
		return "", err
	}
	return filepath.Join(config.OutputPath, rel), nil
}

// relativeTo returns path relative to root, resolving both to absolute
// paths first so relative and absolute forms can be mixed.
func relativeTo(root, path string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not under %s", path, root)
	}
	return rel, nil
}

// prepare fills defaults, normalizes names and rejects configurations that
// would make the run ambiguous.
func prepare(config Config) (Config, error) {
	config = config.withDefaults()

	strategy, err := ident.ParseStrategy(string(config.IDStrategy))
	if err != nil {
		return config, err
	}
	config.IDStrategy = strategy

	format, err := mapping.ParseFormat(string(config.Format))
	if err != nil {
		return config, err
	}
	config.Format = format

	if strings.ContainsAny(config.IDAttribute, " \t\n\"'=<>/") {
		return config, fmt.Errorf("invalid identifier attribute %q", config.IDAttribute)
	}
	same, err := samePath(config.ViewPath, config.OutputPath)
	if err != nil {
		return config, err
	}
	if same {
		return config, fmt.Errorf("output path %s must differ from view path", config.OutputPath)
	}
	return config, nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}

func writeTemplate(path string, doc *dom.Document) error {
	// #nosec G304 - path is derived from the configured output root
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := doc.Render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
