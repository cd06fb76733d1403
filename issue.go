package extractwind

import (
	"regexp"
	"strings"

	"github.com/khalilKhassep/extractwind/internal/report"
)

// Issue is a verification finding in golangci-lint format.
type Issue = report.Issue

// IssuePos specifies the location of an issue.
type IssuePos = report.IssuePos

// verifyLinter names the check in issue output.
const verifyLinter = "verify"

// bladeComment matches {{-- ... --}}; its content is never markup.
var bladeComment = regexp.MustCompile(`(?s)\{\{--.*?--\}\}`)

// maskComments blanks Blade comments while keeping line and column
// positions of everything else.
func maskComments(src []byte) []byte {
	return bladeComment.ReplaceAllFunc(src, func(m []byte) []byte {
		out := make([]byte, len(m))
		for i, c := range m {
			if c == '\n' {
				out[i] = '\n'
			} else {
				out[i] = ' '
			}
		}
		return out
	})
}

// sourceIndex locates attribute text in a template so issues can point at a
// line and column. Repeated lookups of the same text move forward through
// the file, matching elements that share a class in document order.
type sourceIndex struct {
	path string
	src  string
	next map[string]int
}

func newSourceIndex(path string, src []byte) *sourceIndex {
	return &sourceIndex{path: path, src: string(src), next: make(map[string]int)}
}

// issue builds an issue positioned at the first unused occurrence of any
// needle. Position stays 0:0 when none is found.
func (x *sourceIndex) issue(severity, text string, needles ...string) Issue {
	issue := Issue{
		FromLinter: verifyLinter,
		Text:       text,
		Severity:   severity,
		Pos:        IssuePos{Filename: x.path},
	}
	for _, needle := range needles {
		from := x.next[needle]
		idx := strings.Index(x.src[from:], needle)
		if idx < 0 {
			continue
		}
		idx += from
		x.next[needle] = idx + len(needle)

		lineStart := strings.LastIndexByte(x.src[:idx], '\n') + 1
		lineEnd := strings.IndexByte(x.src[idx:], '\n')
		if lineEnd < 0 {
			lineEnd = len(x.src)
		} else {
			lineEnd += idx
		}
		issue.Pos.Line = strings.Count(x.src[:idx], "\n") + 1
		issue.Pos.Column = idx - lineStart + 1
		issue.SourceLines = []string{x.src[lineStart:lineEnd]}
		break
	}
	return issue
}

// attrNeedles returns the ways name=value may be written.
func attrNeedles(name, value string) []string {
	return []string{
		name + `="` + value + `"`,
		name + `='` + value + `'`,
		name + `=` + value,
	}
}
