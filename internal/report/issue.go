// Package report formats verification issues for the terminal and for
// tooling, in golangci-lint style.
package report

// Issue is a single problem found in a rewritten template or mapping file.
type Issue struct {
	FromLinter  string   `json:"FromLinter"`  // "verify"
	Text        string   `json:"Text"`        // "class \"flex\" does not match identifier \"auto-gen-1\""
	Severity    string   `json:"Severity"`    // "warning", "error"
	SourceLines []string `json:"SourceLines"` // lines of the template around the issue
	Pos         IssuePos `json:"Pos"`
}

// IssuePos specifies the location of an issue.
type IssuePos struct {
	Filename string `json:"Filename"`
	Line     int    `json:"Line"`   // 1-based, 0 when unknown
	Column   int    `json:"Column"` // 1-based, 0 when unknown
}

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue texts.
const (
	IssueMissingID       = "element <%s> has a class but no %s attribute"
	IssueClassMismatch   = "class %q does not match %q"
	IssueMissingMapping  = "mapping file %s not found"
	IssueMissingRecord   = "identifier %q has no record in %s"
	IssueRecordMismatch  = "record %q has newClass %q, element has %q"
	IssueOrphanRecord    = "record %q has no element in %s"
	IssueDuplicateID     = "identifier %q is used by more than one element"
	IssueInvalidOriginal = "record %q keeps invalid class %q"
)
