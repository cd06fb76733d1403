// Package dom loads template markup into a mutable node tree and renders it
// back to text.
//
// The tree keeps the original bytes of every token. Rendering an unmodified
// tree reproduces the input exactly; only attributes changed through SetAttr
// are re-rendered. Entities are never decoded and templating syntax such as
// {{ $x }} or @if(...) is carried through as literal text.
package dom

import (
	"bytes"
	"strings"
)

// NodeType identifies the kind of a Node.
type NodeType int

// Node types.
const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
	TemplateNode
)

// Node is a single node in the tree. Element nodes own their children.
type Node struct {
	Type     NodeType
	Data     string // lowercase tag name for elements, raw text otherwise
	Parent   *Node
	Children []*Node

	open  []byte // "<div"
	attrs []*attribute
	close []byte // ">" or "/>" including whitespace before it; nil if the tag never closed
	end   []byte // "</div>"; nil when closed implicitly
	raw   []byte // text, comment, doctype and template nodes
}

// attribute keeps the original bytes of one attribute so untouched ones can
// be written back verbatim.
type attribute struct {
	key    string // lowercase name used for lookups
	raw    []byte // original bytes, including leading whitespace
	lead   []byte // whitespace before the name
	name   []byte // name as written
	val    string // value without quotes, never entity-decoded
	quote  byte   // '"', '\'' or 0 when unquoted
	hasVal bool
	dirty  bool
}

// Attr returns the value of the first attribute named key.
func (n *Node) Attr(key string) (string, bool) {
	if a := n.attr(key); a != nil {
		return a.val, true
	}
	return "", false
}

// HasAttr reports whether the node carries an attribute named key.
func (n *Node) HasAttr(key string) bool {
	return n.attr(key) != nil
}

// SetAttr sets the first attribute named key to val, appending a new
// attribute after the existing ones when absent.
func (n *Node) SetAttr(key, val string) {
	n.SetAttrAfter(key, val, "")
}

// SetAttrAfter is SetAttr, except that a new attribute goes directly after
// the attribute named anchor when the node has one. A directive such as
// @if($a->b) ends the tag at its '>', so the last attribute seen is not
// always the last one written.
func (n *Node) SetAttrAfter(key, val, anchor string) {
	key = strings.ToLower(key)
	if a := n.attr(key); a != nil {
		a.val = val
		a.hasVal = true
		a.dirty = true
		return
	}
	added := &attribute{
		key:    key,
		lead:   []byte(" "),
		name:   []byte(key),
		val:    val,
		hasVal: true,
		dirty:  true,
	}
	at := len(n.attrs)
	if anchor != "" {
		anchor = strings.ToLower(anchor)
		for i, a := range n.attrs {
			if a.key == anchor {
				at = i + 1
				break
			}
		}
	}
	n.attrs = append(n.attrs, nil)
	copy(n.attrs[at+1:], n.attrs[at:])
	n.attrs[at] = added
}

func (n *Node) attr(key string) *attribute {
	key = strings.ToLower(key)
	for _, a := range n.attrs {
		if a.key == key {
			return a
		}
	}
	return nil
}

func (n *Node) appendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// render writes the attribute, re-quoting the value if it was changed.
func (a *attribute) render(buf *bytes.Buffer) {
	if !a.dirty {
		buf.Write(a.raw)
		return
	}
	buf.Write(a.lead)
	buf.Write(a.name)
	if !a.hasVal {
		return
	}
	q := chooseQuote(a.val, a.quote)
	buf.WriteByte('=')
	buf.WriteByte(q)
	if q == '"' {
		buf.WriteString(strings.ReplaceAll(a.val, `"`, "&quot;"))
	} else {
		buf.WriteString(a.val)
	}
	buf.WriteByte(q)
}

// chooseQuote keeps the original quote character when the value allows it.
func chooseQuote(val string, orig byte) byte {
	if orig == '\'' && !strings.ContainsRune(val, '\'') {
		return '\''
	}
	if !strings.ContainsRune(val, '"') {
		return '"'
	}
	if !strings.ContainsRune(val, '\'') {
		return '\''
	}
	return '"'
}

// unquote strips matching quotes from a raw attribute value.
func unquote(raw []byte) (string, byte) {
	if len(raw) == 0 {
		return "", 0
	}
	q := raw[0]
	if q != '"' && q != '\'' {
		return string(raw), 0
	}
	v := raw[1:]
	if len(v) > 0 && v[len(v)-1] == q {
		v = v[:len(v)-1]
	}
	return string(v), q
}
