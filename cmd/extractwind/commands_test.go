package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetKoanf()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// cliProject lays out a small Laravel-style tree in a temp directory.
func cliProject(t *testing.T) (dir string, paths []string) {
	t.Helper()
	dir = chdirTemp(t)
	views := filepath.Join("resources", "views", "components")
	require.NoError(t, os.MkdirAll(views, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(views, "card.blade.php"),
		[]byte("<div class=\"p-4 mt-2\">\n  <h2 class=\"text-lg font-bold\">{{ $title }}</h2>\n</div>\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join("resources", "views", "index.blade.php"),
		[]byte(`<main class="container"></main>`), 0644))

	paths = []string{
		"--views", filepath.Join("resources", "views"),
		"--output", filepath.Join("resources", "views_modified"),
		"--extracted", filepath.Join("resources", "views_extracted"),
	}
	return dir, paths
}

func TestExtractCommand(t *testing.T) {
	_, paths := cliProject(t)

	out, err := runCLI(t, append([]string{"extract", "--ids", "sequential"}, paths...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Rewrote 1 templates into")
	assert.Contains(t, out, "Templates skipped: 1")
	assert.Contains(t, out, "Elements rewritten: 2")
	assert.Contains(t, out, "Identifiers generated: 2 (reused: 0)")

	data, err := os.ReadFile(filepath.Join("resources", "views_modified", "components", "card.blade.php"))
	require.NoError(t, err)
	assert.Equal(t,
		"<div class=\"auto-gen-1-card\" data-class-name=\"auto-gen-1\">\n  <h2 class=\"auto-gen-2-card\" data-class-name=\"auto-gen-2\">{{ $title }}</h2>\n</div>\n",
		string(data))

	raw, err := os.ReadFile(filepath.Join("resources", "views_extracted", "card-classes.json"))
	require.NoError(t, err)
	var records map[string]struct {
		OriginalClasses []string `json:"originalClasses"`
		NewClass        string   `json:"newClass"`
	}
	require.NoError(t, json.Unmarshal(raw, &records))
	assert.Equal(t, []string{"text-lg", "font-bold"}, records["auto-gen-2"].OriginalClasses)
	assert.Equal(t, "auto-gen-1-card", records["auto-gen-1"].NewClass)

	// The excluded entry template is not rewritten
	assert.NoFileExists(t, filepath.Join("resources", "views_modified", "index.blade.php"))

	// Verify passes on a fresh run
	out, err = runCLI(t, append([]string{"verify", "--output-format", "summary"}, paths...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "0 issues (1 file checked)")

	// Generate writes the @apply stylesheet
	out, err = runCLI(t, append([]string{"generate", "--skip-compile", "--temp", "gen/temp.css"}, paths...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 rules to gen/temp.css")
	css, err := os.ReadFile(filepath.Join("gen", "temp.css"))
	require.NoError(t, err)
	assert.Equal(t,
		".auto-gen-1-card { @apply p-4 mt-2; }\n.auto-gen-2-card { @apply text-lg font-bold; }\n",
		string(css))
}

func TestVerifyCommandFails(t *testing.T) {
	_, paths := cliProject(t)

	_, err := runCLI(t, append([]string{"extract", "--ids", "sequential"}, paths...)...)
	require.NoError(t, err)

	target := filepath.Join("resources", "views_modified", "components", "card.blade.php")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), `class="auto-gen-2-card"`, `class="text-lg"`, 1)
	require.NoError(t, os.WriteFile(target, []byte(tampered), 0644))

	out, err := runCLI(t, append([]string{"verify", "--output-format", "json"}, paths...)...)
	require.ErrorContains(t, err, "error(s) found")

	var report struct {
		Summary struct {
			Errors       int `json:"errors"`
			FilesChecked int `json:"files_checked"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Summary.Errors)
	assert.Equal(t, 1, report.Summary.FilesChecked)
}

func TestRootRunsExtract(t *testing.T) {
	_, paths := cliProject(t)

	_, err := runCLI(t, append([]string{"--quiet"}, paths...)...)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("resources", "views_extracted", "card-classes.json"))
}

func TestExtractCommandBadConfig(t *testing.T) {
	_, paths := cliProject(t)
	require.NoError(t, os.WriteFile(defaultConfigFile, []byte("format: xml\n"), 0644))

	_, err := runCLI(t, append([]string{"extract"}, paths...)...)
	require.ErrorContains(t, err, "unknown mapping format")
}
