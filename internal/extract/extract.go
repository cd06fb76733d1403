// Package extract rewrites the class-bearing elements of a parsed template:
// every element gets an identifier attribute and a single generated class,
// and its original utility classes are recorded in a mapping.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/khalilKhassep/extractwind/internal/classattr"
	"github.com/khalilKhassep/extractwind/internal/dom"
	"github.com/khalilKhassep/extractwind/internal/ident"
	"github.com/khalilKhassep/extractwind/internal/mapping"
)

const (
	// DefaultAttr carries the identifier on rewritten elements.
	DefaultAttr = "data-class-name"

	// ClassAttr is the attribute being extracted.
	ClassAttr = "class"
)

// Assigner resolves the identifier of an element, generating one when the
// element has none.
type Assigner struct {
	Attr string
	Gen  ident.Generator
}

// Assign returns the element's identifier. An existing non-empty attribute
// value is reused as is; otherwise a new identifier is written to the
// element, right after its class attribute, and generated is true.
func (a *Assigner) Assign(el *dom.Node) (id string, generated bool, err error) {
	if v, ok := el.Attr(a.Attr); ok && strings.TrimSpace(v) != "" {
		return v, false, nil
	}
	id, err = a.Gen.Next()
	if err != nil {
		return "", false, fmt.Errorf("generate id: %w", err)
	}
	el.SetAttrAfter(a.Attr, id, ClassAttr)
	return id, true, nil
}

// Rewriter replaces class lists with generated class names.
type Rewriter struct {
	FileBase string
}

// Rewrite replaces the element's class attribute with NewClass(id, FileBase)
// and returns the record of its original classes along with the tokens that
// were dropped as invalid.
func (r *Rewriter) Rewrite(el *dom.Node, id string) (mapping.Record, []string) {
	raw, _ := el.Attr(ClassAttr)
	rec := mapping.Record{NewClass: NewClass(id, r.FileBase)}
	el.SetAttr(ClassAttr, rec.NewClass)

	var discarded []string
	rec.OriginalClasses, discarded = classattr.Tokens(raw)
	return rec, discarded
}

// NewClass names the class that replaces an element's class list.
func NewClass(id, fileBase string) string {
	return id + "-" + fileBase
}

// FileBase strips the directory and the template suffix from a path, so
// "views/card.blade.php" becomes "card".
func FileBase(path, suffix string) string {
	return strings.TrimSuffix(filepath.Base(path), suffix)
}

// ExistingIDs returns the non-empty identifiers already present in doc.
func ExistingIDs(doc *dom.Document, attr string) []string {
	var ids []string
	for _, el := range doc.FindAll(dom.HasAttr(attr)) {
		if v, _ := el.Attr(attr); strings.TrimSpace(v) != "" {
			ids = append(ids, v)
		}
	}
	return ids
}

// Options configures a single Run.
type Options struct {
	Attr      string // identifier attribute, DefaultAttr when empty
	FileBase  string
	Generator ident.Generator
}

// Change describes what happened to one element.
type Change struct {
	Tag       string
	ID        string
	NewClass  string
	Generated bool
	Discarded []string
}

// Result is the outcome of rewriting one document.
type Result struct {
	Mapping    *mapping.Mapping
	Changes    []Change
	Duplicates []string // identifiers seen on more than one element
}

// Generated counts elements that received a new identifier.
func (r *Result) Generated() int {
	n := 0
	for _, c := range r.Changes {
		if c.Generated {
			n++
		}
	}
	return n
}

// Reused counts elements that kept their identifier.
func (r *Result) Reused() int {
	return len(r.Changes) - r.Generated()
}

// Run rewrites every element of doc that has a class attribute, in document
// order, and collects one record per element. doc is modified in place.
//
// When two elements share an identifier the later record replaces the
// earlier one and the identifier is listed in Duplicates.
func Run(doc *dom.Document, opts Options) (*Result, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("no id generator configured")
	}
	attr := opts.Attr
	if attr == "" {
		attr = DefaultAttr
	}

	assigner := &Assigner{Attr: attr, Gen: opts.Generator}
	rewriter := &Rewriter{FileBase: opts.FileBase}
	result := &Result{Mapping: mapping.New()}

	for _, el := range doc.FindAll(dom.HasAttr(ClassAttr)) {
		id, generated, err := assigner.Assign(el)
		if err != nil {
			return nil, fmt.Errorf("element <%s>: %w", el.Data, err)
		}
		rec, discarded := rewriter.Rewrite(el, id)
		if result.Mapping.Set(id, rec) {
			result.Duplicates = append(result.Duplicates, id)
		}
		result.Changes = append(result.Changes, Change{
			Tag:       el.Data,
			ID:        id,
			NewClass:  rec.NewClass,
			Generated: generated,
			Discarded: discarded,
		})
	}
	return result, nil
}
