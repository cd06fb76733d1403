package extractwind

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khalilKhassep/extractwind/internal/report"
)

const verifyCard = "<div class=\"p-4 mt-2\">\n  {{-- <span class=\"old\"> --}}\n  <span class=\"text-sm\">{{ $title }}</span>\n</div>\n"

// extractForVerify runs a sequential extraction of the card template.
func extractForVerify(t *testing.T) (Config, *FileResult) {
	t.Helper()
	config := testConfig(t)
	writeTree(t, config.ViewPath, map[string]string{"components/card.blade.php": verifyCard})
	result, err := Extract(config)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	return config, result.Files[0]
}

func TestVerifyClean(t *testing.T) {
	config, _ := extractForVerify(t)

	result, err := Verify(config)
	require.NoError(t, err)
	require.Empty(t, result.Issues)
	require.Equal(t, 1, result.FilesChecked)
	require.Equal(t, 2, result.ElementsChecked)
	require.Equal(t, 1, result.MappingsLoaded)
	require.Equal(t, 0, result.ErrorCount())
	require.Equal(t, report.Totals{FilesChecked: 1, ElementsChecked: 2, MappingsLoaded: 1}, result.Totals())
}

func TestVerifyFindsProblems(t *testing.T) {
	type finding struct {
		severity string
		text     string
	}

	tests := []struct {
		name   string
		tamper func(t *testing.T, fr *FileResult)
		want   []finding
	}{
		{
			name: "class edited by hand",
			tamper: func(t *testing.T, fr *FileResult) {
				replaceInFile(t, fr.OutputPath, `class="auto-gen-2-card"`, `class="text-sm"`)
			},
			want: []finding{
				{report.SeverityError, `class "text-sm" does not match "auto-gen-2-card"`},
				{report.SeverityError, `record "auto-gen-2" has newClass "auto-gen-2-card", element has "text-sm"`},
			},
		},
		{
			name: "element added without identifier",
			tamper: func(t *testing.T, fr *FileResult) {
				replaceInFile(t, fr.OutputPath, "</div>", "<p class=\"mb-1\">new</p></div>")
			},
			want: []finding{
				{report.SeverityError, "element <p> has a class but no data-class-name attribute"},
			},
		},
		{
			name: "element removed",
			tamper: func(t *testing.T, fr *FileResult) {
				data := readFile(t, fr.OutputPath)
				start := strings.Index(data, "<span class=\"auto-gen-2-card\"")
				end := strings.Index(data, "</span>") + len("</span>")
				require.NoError(t, os.WriteFile(fr.OutputPath, []byte(data[:start]+data[end:]), 0644))
			},
			want: []finding{
				{report.SeverityWarning, `record "auto-gen-2" has no element in card.blade.php`},
			},
		},
		{
			name: "identifier duplicated",
			tamper: func(t *testing.T, fr *FileResult) {
				replaceInFile(t, fr.OutputPath, `data-class-name="auto-gen-2"`, `data-class-name="auto-gen-1"`)
			},
			want: []finding{
				{report.SeverityWarning, `identifier "auto-gen-1" is used by more than one element`},
				{report.SeverityError, `class "auto-gen-2-card" does not match "auto-gen-1-card"`},
				{report.SeverityError, `record "auto-gen-1" has newClass "auto-gen-1-card", element has "auto-gen-2-card"`},
				{report.SeverityWarning, `record "auto-gen-2" has no element in card.blade.php`},
			},
		},
		{
			name: "mapping deleted",
			tamper: func(t *testing.T, fr *FileResult) {
				require.NoError(t, os.Remove(fr.MappingPath))
			},
			want: []finding{
				{report.SeverityError, "card-classes.json not found"},
			},
		},
		{
			name: "record emptied",
			tamper: func(t *testing.T, fr *FileResult) {
				require.NoError(t, os.WriteFile(fr.MappingPath,
					[]byte(`{"auto-gen-1": {"originalClasses": ["p-4", "w-1/2"], "newClass": "auto-gen-1-card"}}`), 0644))
			},
			want: []finding{
				{report.SeverityWarning, `record "auto-gen-1" keeps invalid class "w-1/2"`},
				{report.SeverityError, `identifier "auto-gen-2" has no record in card-classes.json`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, fr := extractForVerify(t)
			tt.tamper(t, fr)

			result, err := Verify(config)
			require.NoError(t, err)

			got := make([]finding, len(result.Issues))
			for i, issue := range result.Issues {
				got[i] = finding{issue.Severity, issue.Text}
				require.Equal(t, "verify", issue.FromLinter)
			}
			for _, w := range tt.want {
				found := false
				for _, g := range got {
					if g.severity == w.severity && strings.Contains(g.text, w.text) {
						found = true
						break
					}
				}
				require.True(t, found, "missing %v in %v", w, got)
			}
			require.Len(t, got, len(tt.want))
		})
	}
}

func TestVerifyIssuePosition(t *testing.T) {
	config, fr := extractForVerify(t)
	replaceInFile(t, fr.OutputPath, `class="auto-gen-2-card"`, `class="text-sm"`)

	result, err := Verify(config)
	require.NoError(t, err)
	require.NotEmpty(t, result.Issues)

	issue := result.Issues[0]
	require.Equal(t, fr.OutputPath, issue.Pos.Filename)
	require.Equal(t, 3, issue.Pos.Line)
	require.Equal(t, 9, issue.Pos.Column)
	require.Len(t, issue.SourceLines, 1)
	require.True(t, strings.HasPrefix(issue.SourceLines[0], `  <span class="text-sm"`))
}

func TestMaskComments(t *testing.T) {
	out := maskComments([]byte("a {{-- <p class=\"x\">\n--}} b"))
	require.Equal(t, "a "+strings.Repeat(" ", 18)+"\n"+strings.Repeat(" ", 4)+" b", string(out))
}

func TestVerifyEmptyOutputTree(t *testing.T) {
	config := testConfig(t)
	require.NoError(t, os.MkdirAll(config.OutputPath, 0755))

	result, err := Verify(config)
	require.NoError(t, err)
	require.Empty(t, result.Issues)
	require.Equal(t, 0, result.FilesChecked)
}

func replaceInFile(t *testing.T, path, old, new string) {
	t.Helper()
	data := readFile(t, path)
	require.Contains(t, data, old)
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(data, old, new, 1)), 0644))
}

