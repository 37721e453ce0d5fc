package highlight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme maps span kinds to colours.
type Theme struct {
	Foreground colorful.Color
	Background colorful.Color
	Accent     colorful.Color

	kinds map[Kind]colorful.Color
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Foreground: mustHex("#d4d4d4"),
		Background: mustHex("#1e1e1e"),
		Accent:     mustHex("#569cd6"),
		kinds: map[Kind]colorful.Color{
			KindComment:  mustHex("#6a9955"),
			KindString:   mustHex("#ce9178"),
			KindNumber:   mustHex("#b5cea8"),
			KindKeyword:  mustHex("#c586c0"),
			KindType:     mustHex("#4ec9b0"),
			KindConstant: mustHex("#569cd6"),
			KindBuiltin:  mustHex("#dcdcaa"),
			KindHeading:  mustHex("#569cd6"),
			KindEmphasis: mustHex("#d7ba7d"),
			KindCode:     mustHex("#ce9178"),
			KindLink:     mustHex("#3794ff"),
		},
	}
}

// Color returns the colour for kind. Plain and unset kinds use Foreground.
func (t *Theme) Color(kind Kind) colorful.Color {
	if c, ok := t.kinds[kind]; ok {
		return c
	}
	return t.Foreground
}

// Set assigns a "#rrggbb" colour to a kind name or to one of
// "foreground", "background" and "accent".
func (t *Theme) Set(name, hex string) error {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return fmt.Errorf("theme colour %s: %w", name, err)
	}
	switch strings.ToLower(name) {
	case "foreground":
		t.Foreground = c
	case "background":
		t.Background = c
	case "accent":
		t.Accent = c
	default:
		kind, ok := ParseKind(name)
		if !ok {
			return fmt.Errorf("theme colour %s: unknown name", name)
		}
		if t.kinds == nil {
			t.kinds = make(map[Kind]colorful.Color)
		}
		t.kinds[kind] = c
	}
	return nil
}

// Apply sets every entry of colours, stopping at the first error. Entries
// are applied in name order so the error is deterministic.
func (t *Theme) Apply(colours map[string]string) error {
	names := make([]string, 0, len(colours))
	for name := range colours {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := t.Set(name, colours[name]); err != nil {
			return err
		}
	}
	return nil
}
