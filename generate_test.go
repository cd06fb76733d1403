package extractwind

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeCompiler writes a fixed stylesheet instead of running a tool.
type fakeCompiler struct {
	css    string
	err    error
	calls  int
	input  string
	output string
}

func (f *fakeCompiler) Compile(_ context.Context, input, output string) ([]byte, error) {
	f.calls++
	f.input, f.output = input, output
	if f.err != nil {
		return []byte("boom"), f.err
	}
	return []byte("done"), os.WriteFile(output, []byte(f.css), 0644)
}

func generateConfig(t *testing.T, mappings map[string]string) GenerateConfig {
	t.Helper()
	dir := t.TempDir()
	config := DefaultGenerateConfig()
	config.ExtractedPath = filepath.Join(dir, "views_extracted")
	config.TempPath = filepath.Join(dir, "generated", "temp.css")
	config.CSSOutputPath = filepath.Join(dir, "generated", "combined-output.css")
	config.Stdout = &bytes.Buffer{}
	require.NoError(t, os.MkdirAll(config.ExtractedPath, 0755))
	writeTree(t, config.ExtractedPath, mappings)
	return config
}

const cardMapping = `{
  "auto-gen-1": {"originalClasses": ["p-4", "mt-2"], "newClass": "auto-gen-1-card"},
  "auto-gen-2": {"originalClasses": ["text-sm"], "newClass": "auto-gen-2-card"}
}`

func TestGenerate(t *testing.T) {
	config := generateConfig(t, map[string]string{
		"card-classes.json":   cardMapping,
		"footer-classes.json": `{}`,
		"notes.txt":           "ignored",
	})
	compiler := &fakeCompiler{css: ".auto-gen-1-card{padding:1rem}.auto-gen-2-card{font-size:.875rem}"}
	config.Compiler = compiler
	config.Header = "@tailwind utilities;"

	result, err := Generate(context.Background(), config)
	require.NoError(t, err)
	require.Equal(t, 2, result.FilesRead)
	require.Equal(t, 1, result.FilesEmpty)
	require.Equal(t, 2, result.RulesGenerated)
	require.True(t, result.Compiled)
	require.Equal(t, "done", result.CompilerOutput)
	require.Empty(t, result.Warnings)

	require.Equal(t, 1, compiler.calls)
	require.Equal(t, config.TempPath, compiler.input)
	require.Equal(t, config.CSSOutputPath, compiler.output)

	require.Equal(t,
		"@tailwind utilities;\n"+
			".auto-gen-1-card { @apply p-4 mt-2; }\n"+
			".auto-gen-2-card { @apply text-sm; }\n",
		readFile(t, config.TempPath))
}

func TestGenerateSkipsInvalidAndEmptyRecords(t *testing.T) {
	config := generateConfig(t, map[string]string{
		"card-classes.json": `{
  "a": {"originalClasses": [], "newClass": "a-card"},
  "b": {"originalClasses": ["bad!", "{{ $x }}"], "newClass": "b-card"},
  "c": {"originalClasses": ["flex", "oops;"], "newClass": "c-card"}
}`,
	})
	config.SkipCompile = true

	result, err := Generate(context.Background(), config)
	require.NoError(t, err)
	require.Equal(t, 1, result.RulesGenerated)
	require.Equal(t, 2, result.RulesSkipped)
	require.False(t, result.Compiled)
	require.Equal(t, ".c-card { @apply flex; }\n", readFile(t, config.TempPath))
}

func TestGenerateNothingToDo(t *testing.T) {
	config := generateConfig(t, map[string]string{"card-classes.json": `{}`})
	var out bytes.Buffer
	config.Stdout = &out
	config.Verbose = true
	compiler := &fakeCompiler{}
	config.Compiler = compiler

	result, err := Generate(context.Background(), config)
	require.NoError(t, err)
	require.Equal(t, 0, result.RulesGenerated)
	require.Equal(t, 0, compiler.calls)
	require.Empty(t, result.TempPath)
	require.NoFileExists(t, config.TempPath)
	require.Contains(t, out.String(), "No classes found in card-classes.json")
	require.Contains(t, out.String(), "No valid CSS to process.")
}

func TestGenerateClassNameMismatch(t *testing.T) {
	config := generateConfig(t, map[string]string{
		"card-classes.json": `{"x": {"originalClasses": ["flex"], "newClass": "x-button"}}`,
	})
	config.SkipCompile = true

	result, err := Generate(context.Background(), config)
	require.NoError(t, err)
	require.Len(t, result.Rules, 1)
	require.Equal(t, "x-card", result.Rules[0].Class)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], `"x-button"`)
}

func TestGenerateCheck(t *testing.T) {
	config := generateConfig(t, map[string]string{"card-classes.json": cardMapping})
	config.Compiler = &fakeCompiler{css: ".auto-gen-1-card { padding: 1rem }"}
	config.Check = true

	result, err := Generate(context.Background(), config)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], ".auto-gen-2-card is missing")
}

func TestGenerateErrors(t *testing.T) {
	t.Run("compiler failure", func(t *testing.T) {
		config := generateConfig(t, map[string]string{"card-classes.json": cardMapping})
		config.Compiler = &fakeCompiler{err: errors.New("exit status 1")}

		_, err := Generate(context.Background(), config)
		require.ErrorContains(t, err, "css compiler failed")
		require.FileExists(t, config.TempPath)
	})

	t.Run("missing directory", func(t *testing.T) {
		config := DefaultGenerateConfig()
		config.ExtractedPath = filepath.Join(t.TempDir(), "missing")
		_, err := Generate(context.Background(), config)
		require.ErrorContains(t, err, "read mapping directory")
	})

	t.Run("malformed mapping", func(t *testing.T) {
		config := generateConfig(t, map[string]string{"card-classes.json": `{"x": [}`})
		_, err := Generate(context.Background(), config)
		require.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		config := generateConfig(t, nil)
		config.Format = "ini"
		_, err := Generate(context.Background(), config)
		require.ErrorContains(t, err, "unknown mapping format")
	})
}

func TestGenerateYAMLMappings(t *testing.T) {
	config := generateConfig(t, map[string]string{
		"card-classes.yaml": "k1:\n  originalClasses:\n    - grid\n  newClass: k1-card\n",
		"card-classes.json": cardMapping,
	})
	config.Format = "yaml"
	config.SkipCompile = true

	result, err := Generate(context.Background(), config)
	require.NoError(t, err)
	require.Equal(t, 1, result.FilesRead)
	require.Equal(t, ".k1-card { @apply grid; }\n", readFile(t, config.TempPath))
}

func TestCommandCompilerArgs(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{
			name: "default",
			want: []string{"npx", "tailwindcss", "-i", "in dir/temp.css", "-o", "out.css"},
		},
		{
			name:    "custom with flag syntax",
			command: "tailwindcss --input={input} --output={output} --minify",
			want:    []string{"tailwindcss", "--input=in dir/temp.css", "--output=out.css", "--minify"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CommandCompiler{Command: tt.command}
			require.Equal(t, tt.want, c.Args("in dir/temp.css", "out.css"))
		})
	}
}

func TestCommandCompilerEmpty(t *testing.T) {
	c := &CommandCompiler{Command: "   "}
	_, err := c.Compile(context.Background(), "a", "b")
	require.ErrorContains(t, err, "empty compile command")
}
