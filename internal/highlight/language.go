package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type rule struct {
	re   *regexp.Regexp
	kind Kind
}

type block struct {
	start string
	end   string
	kind  Kind
}

// Language describes how to highlight one file type.
type Language struct {
	Name       string
	Extensions []string

	rules    []rule
	keywords map[string]Kind
	block    *block
}

// NewLanguage creates a language with no rules.
func NewLanguage(name string, extensions ...string) *Language {
	return &Language{
		Name:       name,
		Extensions: extensions,
		keywords:   make(map[string]Kind),
	}
}

// AddRule adds a pattern. Earlier rules win over later ones.
func (l *Language) AddRule(pattern string, kind Kind) *Language {
	l.rules = append(l.rules, rule{re: regexp.MustCompile(pattern), kind: kind})
	return l
}

// AddKeywords assigns kind to whole-word identifiers.
func (l *Language) AddKeywords(kind Kind, words ...string) *Language {
	for _, w := range words {
		l.keywords[w] = kind
	}
	return l
}

// SetBlock sets the construct that may continue over several lines.
func (l *Language) SetBlock(start, end string, kind Kind) *Language {
	l.block = &block{start: start, end: end, kind: kind}
	return l
}

// Line highlights a single line. inBlock reports whether the previous line
// ended inside an open block; the second result is the same for this line.
func (l *Language) Line(line string, inBlock bool) ([]Span, bool) {
	var spans []Span
	pos := 0

	if inBlock && l.block != nil {
		end := strings.Index(line, l.block.end)
		if end < 0 {
			if line == "" {
				return nil, true
			}
			return []Span{{Start: 0, End: len(line), Kind: l.block.kind}}, true
		}
		pos = end + len(l.block.end)
		spans = append(spans, Span{Start: 0, End: pos, Kind: l.block.kind})
	}

	for _, r := range l.rules {
		for _, m := range r.re.FindAllStringIndex(line, -1) {
			if m[0] < pos || m[0] == m[1] || overlaps(spans, m[0], m[1]) {
				continue
			}
			spans = append(spans, Span{Start: m[0], End: m[1], Kind: r.kind})
		}
	}

	open := false
	if l.block != nil {
		spans, open = l.blocks(line, spans, pos)
	}
	if open {
		sortSpans(spans)
		return spans, true
	}

	spans = append(spans, l.words(line, spans, pos)...)
	sortSpans(spans)
	return spans, false
}

// blocks finds block openings outside existing spans. Spans swallowed by a
// block are dropped.
func (l *Language) blocks(line string, spans []Span, pos int) ([]Span, bool) {
	for pos < len(line) {
		i := strings.Index(line[pos:], l.block.start)
		if i < 0 {
			break
		}
		start := pos + i
		if inside(spans, start) {
			pos = start + 1
			continue
		}

		end := len(line)
		open := true
		if j := strings.Index(line[start+len(l.block.start):], l.block.end); j >= 0 {
			end = start + len(l.block.start) + j + len(l.block.end)
			open = false
		}

		kept := spans[:0]
		for _, s := range spans {
			if s.Start < start || s.Start >= end {
				kept = append(kept, s)
			}
		}
		spans = append(kept, Span{Start: start, End: end, Kind: l.block.kind})
		if open {
			return spans, true
		}
		pos = end
	}
	return spans, false
}

func (l *Language) words(line string, spans []Span, pos int) []Span {
	if len(l.keywords) == 0 {
		return nil
	}
	var out []Span
	i := pos
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if !isIdentStart(r) {
			i += size
			continue
		}
		start := i
		for i < len(line) {
			r, size = utf8.DecodeRuneInString(line[i:])
			if !isIdentStart(r) && !unicode.IsDigit(r) {
				break
			}
			i += size
		}
		if kind, ok := l.keywords[line[start:i]]; ok && !overlaps(spans, start, i) {
			out = append(out, Span{Start: start, End: i, Kind: kind})
		}
	}
	return out
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// inside reports whether i falls within a span that starts before it.
func inside(spans []Span, i int) bool {
	for _, s := range spans {
		if s.Start < i && i < s.End {
			return true
		}
	}
	return false
}

func overlaps(spans []Span, start, end int) bool {
	for _, s := range spans {
		if start < s.End && s.Start < end {
			return true
		}
	}
	return false
}

func sortSpans(spans []Span) {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
}
