// Package classattr cleans raw class attribute values coming from Blade
// templates and splits them into utility class tokens.
package classattr

import (
	"regexp"
	"strings"
)

var (
	// Interpolation spans, matched non-greedily: {{ $x }}, {{-- note --}}
	echoPattern = regexp.MustCompile(`(?s)\{\{.*?\}\}`)

	// Directive names such as @if, @class, @endif
	directivePattern = regexp.MustCompile(`@\w+`)

	// Letters, digits, colon and hyphen only
	tokenPattern = regexp.MustCompile(`^[a-zA-Z0-9:-]+$`)
)

// Sanitize removes interpolation spans and directives from a raw class
// value and trims the result. A directive's parenthesised argument list is
// removed with it, so "mt-2 @if($a) p-4" becomes "mt-2  p-4".
//
// This is a textual filter. Nothing removed is parsed or evaluated.
func Sanitize(raw string) string {
	s := echoPattern.ReplaceAllString(raw, "")
	s = stripDirectives(s)
	return strings.TrimSpace(s)
}

func stripDirectives(s string) string {
	locs := directivePattern.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		if loc[0] < last {
			// inside the argument list of the previous directive
			continue
		}
		b.WriteString(s[last:loc[0]])
		last = loc[1] + argsLen(s[loc[1]:])
	}
	b.WriteString(s[last:])
	return b.String()
}

// argsLen returns the length of a balanced "(...)" group at the start of s,
// or 0 when s does not start with one or it never closes.
func argsLen(s string) int {
	if !strings.HasPrefix(s, "(") {
		return 0
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return 0
}

// IsValid reports whether token is a well-formed utility class: at least
// one character, only ASCII letters, digits, ':' and '-'.
func IsValid(token string) bool {
	return tokenPattern.MatchString(token)
}

// Tokens sanitizes raw, splits it on whitespace and partitions the result
// into valid and discarded tokens, both in source order. valid is never nil.
func Tokens(raw string) (valid, discarded []string) {
	valid = []string{}
	for _, tok := range strings.Fields(Sanitize(raw)) {
		if IsValid(tok) {
			valid = append(valid, tok)
		} else {
			discarded = append(discarded, tok)
		}
	}
	return valid, discarded
}

// Filter returns the valid tokens of an already split class list.
func Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsValid(tok) {
			out = append(out, tok)
		}
	}
	return out
}
