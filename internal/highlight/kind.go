// Package highlight provides line-oriented syntax highlighting for documents.
//
// A Language is a small set of regular-expression rules, a keyword table and
// an optional block construct that may span lines. A Highlighter owns the
// spans for one document and is refreshed in a single pass with Run.
package highlight

import "strings"

// Kind is the semantic class of a highlighted span.
type Kind uint8

const (
	KindPlain Kind = iota
	KindComment
	KindString
	KindNumber
	KindKeyword
	KindType
	KindConstant
	KindBuiltin
	KindHeading
	KindEmphasis
	KindCode
	KindLink
)

var kindNames = []string{
	KindPlain:    "plain",
	KindComment:  "comment",
	KindString:   "string",
	KindNumber:   "number",
	KindKeyword:  "keyword",
	KindType:     "type",
	KindConstant: "constant",
	KindBuiltin:  "builtin",
	KindHeading:  "heading",
	KindEmphasis: "emphasis",
	KindCode:     "code",
	KindLink:     "link",
}

// String returns the kind name used in theme tables.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind looks a kind up by name.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return KindPlain, false
}

// Span is a highlighted byte range [Start, End) of one line.
type Span struct {
	Start int
	End   int
	Kind  Kind
}
