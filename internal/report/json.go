package report

import (
	"encoding/json"
	"io"
	"time"
)

// Format is the verification output format.
type Format string

const (
	// FormatIssues prints issues in golangci-lint format followed by a summary.
	FormatIssues Format = "issues"
	// FormatSummary prints only the summary line.
	FormatSummary Format = "summary"
	// FormatFull prints issues, statistics and the summary.
	FormatFull Format = "full"
	// FormatJSON exports structured data for tooling.
	FormatJSON Format = "json"
)

// ParseFormat maps a flag value to a Format, falling back to FormatIssues.
func ParseFormat(s string) Format {
	switch Format(s) {
	case FormatSummary:
		return FormatSummary
	case FormatFull:
		return FormatFull
	case FormatJSON:
		return FormatJSON
	}
	return FormatIssues
}

// JSONOutput is the JSON export schema.
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Issues    []JSONIssue `json:"issues"`
}

// JSONSummary contains the issue counts.
type JSONSummary struct {
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	FilesChecked    int `json:"files_checked"`
	ElementsChecked int `json:"elements_checked"`
	MappingsLoaded  int `json:"mappings_loaded"`
}

// JSONIssue is a single issue.
type JSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Source   string `json:"source,omitempty"`
}

// Totals are the counters reported alongside the issues.
type Totals struct {
	FilesChecked    int
	ElementsChecked int
	MappingsLoaded  int
}

// WriteJSON writes issues and totals as indented JSON.
func WriteJSON(w io.Writer, issues []Issue, totals Totals) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(issues, totals, time.Now()))
}

func buildJSONOutput(issues []Issue, totals Totals, now time.Time) JSONOutput {
	errors, warnings := CountSeverities(issues)

	jsonIssues := make([]JSONIssue, len(issues))
	for i, issue := range issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		jsonIssues[i] = JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
			Source:   source,
		}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: now.Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:     len(issues),
			Errors:          errors,
			Warnings:        warnings,
			FilesChecked:    totals.FilesChecked,
			ElementsChecked: totals.ElementsChecked,
			MappingsLoaded:  totals.MappingsLoaded,
		},
		Issues: jsonIssues,
	}
}

// Write renders issues in the given format.
func Write(w io.Writer, issues []Issue, totals Totals, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, issues, totals)
	case FormatSummary:
		NewReporter(w, opts).PrintSummary(issues, totals.FilesChecked)
	case FormatFull:
		r := NewReporter(w, opts)
		r.PrintIssues(issues)
		NewStatsReporter(w, opts.UseColors).PrintStatistics(issues, totals)
		r.PrintSummary(issues, totals.FilesChecked)
	default:
		r := NewReporter(w, opts)
		r.PrintIssues(issues)
		r.PrintSummary(issues, totals.FilesChecked)
	}
	return nil
}
