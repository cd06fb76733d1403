// Package stylesheet writes the synthetic @apply stylesheet fed to the CSS
// compiler and inspects the compiled result.
package stylesheet

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Rule composes one generated class from utility classes.
type Rule struct {
	Class  string
	Apply  []string
	Source string // mapping file the rule came from, for diagnostics
}

// String renders the rule on a single line: .name { @apply a b; }
func (r Rule) String() string {
	return fmt.Sprintf(".%s { @apply %s; }", EscapeClass(r.Class), strings.Join(r.Apply, " "))
}

// Write renders header (if any) followed by one rule per line.
func Write(w io.Writer, header string, rules []Rule) error {
	if header != "" {
		if _, err := io.WriteString(w, strings.TrimRight(header, "\n")+"\n"); err != nil {
			return err
		}
	}
	for _, r := range rules {
		if _, err := io.WriteString(w, r.String()+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Bytes is Write into a buffer.
func Bytes(header string, rules []Rule) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, header, rules)
	return buf.Bytes()
}

// EscapeClass escapes a class name for use in a selector. Generated names
// only need this when an identifier was hand-written with unusual characters.
func EscapeClass(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= '0' && c <= '9':
			if i == 0 || (i == 1 && name[0] == '-') {
				fmt.Fprintf(&b, "\\%x ", c)
				continue
			}
			b.WriteByte(c)
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-', c == '_', c >= 0x80:
			b.WriteByte(c)
		default:
			b.WriteByte('\\')
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ClassSelectors returns every class name used in a selector of the given
// stylesheet, as written (escapes are kept).
func ClassSelectors(content []byte) map[string]bool {
	found := make(map[string]bool)
	lexer := css.NewLexer(parse.NewInputBytes(content))

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			// ErrorToken at EOF is normal
			break
		}
		if tt == css.DelimToken && len(text) == 1 && text[0] == '.' {
			tt2, name := lexer.Next()
			if tt2 == css.IdentToken {
				found[string(name)] = true
			}
		}
	}
	return found
}

// Missing lists the rule classes with no selector in compiled.
func Missing(rules []Rule, compiled []byte) []Rule {
	selectors := ClassSelectors(compiled)
	var missing []Rule
	for _, r := range rules {
		if !selectors[EscapeClass(r.Class)] {
			missing = append(missing, r)
		}
	}
	return missing
}
