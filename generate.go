package extractwind

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/khalilKhassep/extractwind/internal/classattr"
	"github.com/khalilKhassep/extractwind/internal/extract"
	"github.com/khalilKhassep/extractwind/internal/mapping"
	"github.com/khalilKhassep/extractwind/internal/stylesheet"
)

// Generation defaults.
const (
	DefaultTempPath      = "./public/generated/temp.css"
	DefaultCSSOutputPath = "./public/generated/combined-output.css"
)

// GenerateConfig holds stylesheet generation configuration.
type GenerateConfig struct {
	ExtractedPath string         // directory of mapping files
	Format        mapping.Format // mapping file format to read
	TempPath      string         // synthetic @apply stylesheet
	CSSOutputPath string         // compiled stylesheet
	Command       string         // compiler command template, see CommandCompiler
	Header        string         // written before the rules, e.g. "@tailwind utilities;"
	Compiler      Compiler       // overrides Command when set
	SkipCompile   bool           // write TempPath only
	Check         bool           // warn about rules missing from the compiled output
	Verbose       bool
	Stdout        io.Writer
}

// DefaultGenerateConfig returns the configuration used when nothing is set.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		ExtractedPath: DefaultExtractedPath,
		Format:        mapping.FormatJSON,
		TempPath:      DefaultTempPath,
		CSSOutputPath: DefaultCSSOutputPath,
		Command:       DefaultCompileCommand,
	}
}

func (c GenerateConfig) withDefaults() GenerateConfig {
	d := DefaultGenerateConfig()
	if c.ExtractedPath == "" {
		c.ExtractedPath = d.ExtractedPath
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.TempPath == "" {
		c.TempPath = d.TempPath
	}
	if c.CSSOutputPath == "" {
		c.CSSOutputPath = d.CSSOutputPath
	}
	if c.Command == "" {
		c.Command = d.Command
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	return c
}

// GenerateResult contains generation stats.
type GenerateResult struct {
	FilesRead      int
	FilesEmpty     int
	RulesGenerated int
	RulesSkipped   int // records with no valid classes
	TempPath       string
	Compiled       bool
	CompilerOutput string
	Rules          []stylesheet.Rule
	Warnings       []string
}

// Generate reads every mapping file in config.ExtractedPath, writes one
// "@apply" rule per record to config.TempPath and runs the compiler on it.
// Nothing is written or compiled when no record has a valid class.
func Generate(ctx context.Context, config GenerateConfig) (*GenerateResult, error) {
	config = config.withDefaults()
	format, err := mapping.ParseFormat(string(config.Format))
	if err != nil {
		return nil, err
	}
	config.Format = format

	result := &GenerateResult{}

	// 1. Collect rules from the mapping files
	entries, err := os.ReadDir(config.ExtractedPath)
	if err != nil {
		return nil, fmt.Errorf("read mapping directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		view, ok := mapping.ViewName(entry.Name(), config.Format)
		if !ok {
			continue
		}

		path := filepath.Join(config.ExtractedPath, entry.Name())
		m, err := mapping.Read(path, config.Format)
		if err != nil {
			return nil, err
		}
		result.FilesRead++

		if m.Len() == 0 {
			result.FilesEmpty++
			if config.Verbose {
				fmt.Fprintf(config.Stdout, "No classes found in %s\n", entry.Name())
			}
			continue
		}
		if config.Verbose {
			fmt.Fprintf(config.Stdout, "Processing %s\n", entry.Name())
		}

		for _, id := range m.Keys() {
			rec, _ := m.Get(id)
			class := extract.NewClass(id, view)
			if rec.NewClass != "" && rec.NewClass != class {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"%s: record %q has newClass %q, generating %q", entry.Name(), id, rec.NewClass, class))
			}

			apply := classattr.Filter(rec.OriginalClasses)
			if len(apply) == 0 {
				result.RulesSkipped++
				continue
			}
			rule := stylesheet.Rule{Class: class, Apply: apply, Source: entry.Name()}
			result.Rules = append(result.Rules, rule)
			if config.Verbose {
				fmt.Fprintf(config.Stdout, "Generated CSS for %s: %s\n", class, rule)
			}
		}
	}
	result.RulesGenerated = len(result.Rules)

	if len(result.Rules) == 0 {
		if config.Verbose {
			fmt.Fprintln(config.Stdout, "No valid CSS to process.")
		}
		return result, nil
	}

	// 2. Write the synthetic stylesheet
	if err := os.MkdirAll(filepath.Dir(config.TempPath), 0755); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	if err := os.WriteFile(config.TempPath, stylesheet.Bytes(config.Header, result.Rules), 0644); err != nil {
		return nil, fmt.Errorf("write stylesheet: %w", err)
	}
	result.TempPath = config.TempPath
	if config.Verbose {
		fmt.Fprintf(config.Stdout, "Combined CSS written to %s\n", config.TempPath)
	}

	if config.SkipCompile {
		return result, nil
	}

	// 3. Compile
	if err := os.MkdirAll(filepath.Dir(config.CSSOutputPath), 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	compiler := config.Compiler
	if compiler == nil {
		compiler = &CommandCompiler{Command: config.Command}
	}
	out, err := compiler.Compile(ctx, config.TempPath, config.CSSOutputPath)
	result.CompilerOutput = string(out)
	if err != nil {
		return nil, fmt.Errorf("css compiler failed: %w", err)
	}
	result.Compiled = true
	if config.Verbose {
		fmt.Fprintf(config.Stdout, "CSS compiled to %s\n", config.CSSOutputPath)
	}

	// 4. Optionally confirm every rule made it into the output
	if config.Check {
		// #nosec G304 - path comes from trusted configuration
		compiled, err := os.ReadFile(config.CSSOutputPath)
		if err != nil {
			return nil, fmt.Errorf("read compiled css: %w", err)
		}
		for _, r := range stylesheet.Missing(result.Rules, compiled) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%s: .%s is missing from %s (check %s)", r.Source, r.Class, config.CSSOutputPath, strings.Join(r.Apply, " ")))
		}
	}

	return result, nil
}
