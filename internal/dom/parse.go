package dom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// voidElements never get children, whether or not they are written as <br/>.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Document is a parsed template.
type Document struct {
	root *Node
}

// builder turns lexer tokens into a tree. Raw bytes always come from src;
// the lexer works on a private copy because it lowercases names in place.
type builder struct {
	src   []byte
	root  *Node
	stack []*Node
}

// Load reads and parses the template at path.
func Load(path string) (*Document, error) {
	// #nosec G304 - path comes from the template walker
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(content), nil
}

// Parse builds a tree from src. It never fails: anything the lexer cannot
// interpret is kept as literal text.
func Parse(src []byte) *Document {
	b := &builder{
		src:  src,
		root: &Node{Type: DocumentNode},
	}
	b.stack = []*Node{b.root}
	b.lex(0, len(src), false)
	return &Document{root: b.root}
}

func (b *builder) current() *Node {
	return b.stack[len(b.stack)-1]
}

// lex tokenizes src[start:end]. An island is an <svg>, <math> or <xml>
// element that the lexer returns as one opaque token; its tag name is masked
// so the nested pass lexes it as an ordinary element.
func (b *builder) lex(start, end int, island bool) {
	buf := parse.Copy(b.src[start:end])
	if island && len(buf) > 2 {
		buf[2] = '_'
	}
	in := parse.NewInputBytes(buf)
	l := html.NewTemplateLexer(in, html.GoTemplate)

	var el *Node // element whose start tag is open
	prev := 0
	for {
		tt, _ := l.Next()
		off := in.Offset()
		if off > len(buf) {
			off = len(buf)
		}
		raw := b.src[start+prev : start+off]

		switch tt {
		case html.ErrorToken:
			if rest := b.src[start+prev : end]; len(rest) > 0 {
				b.text(TextNode, rest)
			}
			return

		case html.StartTagToken:
			el = &Node{
				Type: ElementNode,
				Data: strings.ToLower(string(raw[1:])),
				open: raw,
			}
			b.current().appendChild(el)

		case html.AttributeToken:
			if el == nil {
				b.text(TextNode, raw)
				break
			}
			el.attrs = append(el.attrs, newAttribute(raw, l.AttrKey(), l.AttrVal()))

		case html.StartTagCloseToken, html.StartTagVoidToken:
			if el == nil {
				b.text(TextNode, raw)
				break
			}
			el.close = raw
			if tt == html.StartTagCloseToken && !voidElements[el.Data] {
				b.stack = append(b.stack, el)
			}
			el = nil

		case html.SVGToken, html.MathToken, html.XMLToken:
			b.lex(start+prev, start+off, true)

		case html.EndTagToken:
			b.closeElement(raw)

		case html.CommentToken:
			b.text(CommentNode, raw)

		case html.DoctypeToken:
			b.text(DoctypeNode, raw)

		case html.TemplateToken:
			b.text(TemplateNode, raw)

		default:
			b.text(TextNode, raw)
		}
		prev = off
	}
}

func (b *builder) text(t NodeType, raw []byte) {
	b.current().appendChild(&Node{Type: t, Data: string(raw), raw: raw})
}

// closeElement pops the nearest open element with a matching name. End tags
// with no open match are kept as text.
func (b *builder) closeElement(raw []byte) {
	name := endTagName(raw)
	for i := len(b.stack) - 1; i > 0; i-- {
		if b.stack[i].Data == name {
			b.stack[i].end = raw
			b.stack = b.stack[:i]
			return
		}
	}
	b.text(TextNode, raw)
}

func endTagName(raw []byte) string {
	s := strings.TrimPrefix(string(raw), "</")
	s = strings.TrimSuffix(s, ">")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

func newAttribute(raw, key, val []byte) *attribute {
	lead := len(raw) - len(bytes.TrimLeft(raw, " \t\n\r\f"))
	nameEnd := lead + len(key)
	if nameEnd > len(raw) {
		nameEnd = len(raw)
	}
	a := &attribute{
		key:  strings.ToLower(string(key)),
		raw:  raw,
		lead: raw[:lead],
		name: raw[lead:nameEnd],
	}
	if val != nil {
		a.hasVal = true
		a.val, a.quote = unquote(val)
	}
	return a
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// FindAll returns every element matching match, in document order.
func (d *Document) FindAll(match func(*Node) bool) []*Node {
	var found []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Type == ElementNode && match(n) {
			found = append(found, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(d.root)
	return found
}

// HasAttr matches elements carrying the named attribute.
func HasAttr(key string) func(*Node) bool {
	return func(n *Node) bool {
		return n.HasAttr(key)
	}
}

// Render writes the document back as text.
func (d *Document) Render(w io.Writer) error {
	_, err := w.Write(d.Bytes())
	return err
}

// Bytes returns the rendered document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	renderNode(&buf, d.root)
	return buf.Bytes()
}

func renderNode(buf *bytes.Buffer, n *Node) {
	switch n.Type {
	case DocumentNode:
		for _, c := range n.Children {
			renderNode(buf, c)
		}
	case ElementNode:
		buf.Write(n.open)
		for _, a := range n.attrs {
			a.render(buf)
		}
		buf.Write(n.close)
		for _, c := range n.Children {
			renderNode(buf, c)
		}
		buf.Write(n.end)
	default:
		buf.Write(n.raw)
	}
}
