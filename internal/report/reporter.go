package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Options controls how issues are printed.
type Options struct {
	UseColors       bool // force colors on
	PrintLines      bool // show source lines with a caret
	PrintLinterName bool // append "(verify)" to each issue
}

// Reporter prints issues in golangci-lint format.
type Reporter struct {
	w               io.Writer
	useColors       bool
	printLines      bool
	printLinterName bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, opts Options) *Reporter {
	return &Reporter{
		w:               w,
		useColors:       ShouldUseColors(opts.UseColors),
		printLines:      opts.PrintLines,
		printLinterName: opts.PrintLinterName,
	}
}

// ShouldUseColors determines if colors should be enabled. force wins;
// otherwise FORCE_COLOR, GitHub Actions or a terminal on stdout enable them.
func ShouldUseColors(force bool) bool {
	if force {
		return true
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}
	return false
}

// SortIssues orders issues by file, line, then column.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Pos.Filename != issues[j].Pos.Filename {
			return issues[i].Pos.Filename < issues[j].Pos.Filename
		}
		if issues[i].Pos.Line != issues[j].Pos.Line {
			return issues[i].Pos.Line < issues[j].Pos.Line
		}
		return issues[i].Pos.Column < issues[j].Pos.Column
	})
}

// PrintIssues outputs issues sorted by position.
func (r *Reporter) PrintIssues(issues []Issue) {
	SortIssues(issues)
	for _, issue := range issues {
		r.printIssue(issue)
	}
}

// printIssue formats one issue as "file:line:col: message (linter)".
func (r *Reporter) printIssue(issue Issue) {
	location := fmt.Sprintf("%s:%d:%d:", issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column)

	linterSuffix := ""
	if r.printLinterName {
		linterSuffix = fmt.Sprintf(" (%s)", issue.FromLinter)
	}

	text := issue.Text
	if issue.Severity == SeverityError {
		text = RenderStyle(StyleRed, text, r.useColors)
	}

	fmt.Fprintf(r.w, "%s %s%s\n",
		RenderStyle(StyleCyan, location, r.useColors),
		text,
		RenderStyle(StyleGray, linterSuffix, r.useColors))

	if r.printLines && len(issue.SourceLines) > 0 {
		for _, line := range issue.SourceLines {
			fmt.Fprintf(r.w, "\t%s\n", line)
		}
		caret := r.buildCaretIndicator(issue.SourceLines[0], issue.Pos.Column)
		fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, caret, r.useColors))
	}
}

// buildCaretIndicator creates the "^" indicator aligned with column,
// copying tabs from the source line so the caret lines up.
func (r *Reporter) buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	prefixLen := column - 1
	if prefixLen > len(sourceLine) {
		prefixLen = len(sourceLine)
	}

	var padding strings.Builder
	for _, ch := range sourceLine[:prefixLen] {
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
	}
	return padding.String() + "^"
}

// PrintSummary outputs the issue counts.
func (r *Reporter) PrintSummary(issues []Issue, filesChecked int) {
	errors, warnings := CountSeverities(issues)

	fmt.Fprintln(r.w, "")
	if len(issues) == 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleGreen,
			fmt.Sprintf("0 issues (%s checked)", pluralizeCount(filesChecked, "file", "files")), r.useColors))
		return
	}

	if errors > 0 && warnings > 0 {
		fmt.Fprintf(r.w, "%s (%s, %s) in %s\n",
			pluralizeCount(len(issues), "issue", "issues"),
			pluralizeCount(errors, "error", "errors"),
			pluralizeCount(warnings, "warning", "warnings"),
			pluralizeCount(filesChecked, "file", "files"))
	} else {
		fmt.Fprintf(r.w, "%s in %s\n",
			pluralizeCount(len(issues), "issue", "issues"),
			pluralizeCount(filesChecked, "file", "files"))
	}
}

// CountSeverities returns the number of errors and warnings.
func CountSeverities(issues []Issue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// pluralizeCount returns the count with the singular or plural noun.
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// UseColors returns whether colors are enabled.
func (r *Reporter) UseColors() bool {
	return r.useColors
}
