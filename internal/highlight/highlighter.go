package highlight

// Highlighter holds the spans of one document.
type Highlighter struct {
	lang  *Language
	spans [][]Span
	runs  int
}

// New creates a highlighter for lang. A nil language means Unknown.
func New(lang *Language) *Highlighter {
	if lang == nil {
		lang = Unknown
	}
	return &Highlighter{lang: lang}
}

// Language returns the active language.
func (h *Highlighter) Language() *Language {
	return h.lang
}

// SetLanguage switches language and drops the cached spans.
func (h *Highlighter) SetLanguage(lang *Language) {
	if lang == nil {
		lang = Unknown
	}
	h.lang = lang
	h.spans = nil
}

// Run recomputes the spans for every line.
func (h *Highlighter) Run(lines []string) {
	spans := make([][]Span, len(lines))
	open := false
	for y, line := range lines {
		spans[y], open = h.lang.Line(line, open)
	}
	h.spans = spans
	h.runs++
}

// Spans returns the spans of line y, or nil if y has not been highlighted.
func (h *Highlighter) Spans(y int) []Span {
	if y < 0 || y >= len(h.spans) {
		return nil
	}
	return h.spans[y]
}

// Runs returns how many times Run has been called.
func (h *Highlighter) Runs() int {
	return h.runs
}
