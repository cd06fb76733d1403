package extractwind

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"

	"github.com/khalilKhassep/extractwind/internal/classattr"
	"github.com/khalilKhassep/extractwind/internal/extract"
	"github.com/khalilKhassep/extractwind/internal/mapping"
	"github.com/khalilKhassep/extractwind/internal/report"
)

// VerifyResult holds the findings of Verify.
type VerifyResult struct {
	Issues          []Issue
	FilesChecked    int
	ElementsChecked int
	MappingsLoaded  int
}

// ErrorCount returns the number of error-severity issues.
func (r *VerifyResult) ErrorCount() int {
	errs, _ := report.CountSeverities(r.Issues)
	return errs
}

// Totals returns the counters for the reporter.
func (r *VerifyResult) Totals() report.Totals {
	return report.Totals{
		FilesChecked:    r.FilesChecked,
		ElementsChecked: r.ElementsChecked,
		MappingsLoaded:  r.MappingsLoaded,
	}
}

// Verify audits the result of a previous Extract run. Every template in
// config.OutputPath is parsed with an HTML5 parser, independent of the one
// used for rewriting, and each element with a class attribute is checked
// against the identifier attribute and its mapping file.
//
// Issues are findings, not failures: the error return is reserved for I/O
// problems.
func Verify(config Config) (*VerifyResult, error) {
	config, err := prepare(config)
	if err != nil {
		return nil, err
	}

	scan := config
	scan.ViewPath = config.OutputPath
	files, _, err := FindTemplates(scan)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	result := &VerifyResult{}
	for _, path := range files {
		if err := verifyFile(path, config, result); err != nil {
			return nil, fmt.Errorf("verify %s: %w", path, err)
		}
		result.FilesChecked++
	}
	report.SortIssues(result.Issues)
	return result, nil
}

func verifyFile(path string, config Config, result *VerifyResult) error {
	// #nosec G304 - path comes from the template walker
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	index := newSourceIndex(path, src)

	base := extract.FileBase(path, config.Suffix)
	mappingPath := filepath.Join(config.ExtractedPath, mapping.FileName(base, config.Format))
	m, err := mapping.Read(mappingPath, config.Format)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m = nil
		result.Issues = append(result.Issues, Issue{
			FromLinter: verifyLinter,
			Text:       fmt.Sprintf(report.IssueMissingMapping, mappingPath),
			Severity:   report.SeverityError,
			Pos:        IssuePos{Filename: path},
		})
	case err != nil:
		m = nil
		result.Issues = append(result.Issues, Issue{
			FromLinter: verifyLinter,
			Text:       err.Error(),
			Severity:   report.SeverityError,
			Pos:        IssuePos{Filename: mappingPath},
		})
	default:
		result.MappingsLoaded++
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(maskComments(src)))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	seen := make(map[string]int)
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		result.ElementsChecked++
		class := s.AttrOr(extract.ClassAttr, "")
		classNeedles := attrNeedles(extract.ClassAttr, class)

		id, ok := s.Attr(config.IDAttribute)
		if !ok || id == "" {
			result.Issues = append(result.Issues, index.issue(report.SeverityError,
				fmt.Sprintf(report.IssueMissingID, goquery.NodeName(s), config.IDAttribute),
				classNeedles...))
			return
		}
		idNeedles := attrNeedles(config.IDAttribute, id)

		seen[id]++
		if seen[id] == 2 {
			result.Issues = append(result.Issues, index.issue(report.SeverityWarning,
				fmt.Sprintf(report.IssueDuplicateID, id), idNeedles...))
		}

		if want := extract.NewClass(id, base); class != want {
			result.Issues = append(result.Issues, index.issue(report.SeverityError,
				fmt.Sprintf(report.IssueClassMismatch, class, want), classNeedles...))
		}

		if m == nil {
			return
		}
		rec, ok := m.Get(id)
		if !ok {
			result.Issues = append(result.Issues, index.issue(report.SeverityError,
				fmt.Sprintf(report.IssueMissingRecord, id, filepath.Base(mappingPath)), idNeedles...))
			return
		}
		if rec.NewClass != class {
			result.Issues = append(result.Issues, index.issue(report.SeverityError,
				fmt.Sprintf(report.IssueRecordMismatch, id, rec.NewClass, class), idNeedles...))
		}
		for _, tok := range rec.OriginalClasses {
			if !classattr.IsValid(tok) {
				result.Issues = append(result.Issues, Issue{
					FromLinter: verifyLinter,
					Text:       fmt.Sprintf(report.IssueInvalidOriginal, id, tok),
					Severity:   report.SeverityWarning,
					Pos:        IssuePos{Filename: mappingPath},
				})
			}
		}
	})

	if m == nil {
		return nil
	}
	for _, id := range m.Keys() {
		if seen[id] == 0 {
			result.Issues = append(result.Issues, Issue{
				FromLinter: verifyLinter,
				Text:       fmt.Sprintf(report.IssueOrphanRecord, id, filepath.Base(path)),
				Severity:   report.SeverityWarning,
				Pos:        IssuePos{Filename: mappingPath},
			})
		}
	}
	return nil
}
