// Package feedback defines the single-slot status message shown to the user
// on the editor's feedback line.
package feedback

// Kind identifies the severity of a feedback message.
type Kind uint8

const (
	KindNone Kind = iota
	KindInfo
	KindWarning
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInfo:
		return "info"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Feedback is exactly one of None, Info, Warning or Error.
// Handlers overwrite it; the last writer in an iteration wins.
type Feedback struct {
	Kind Kind
	Text string
}

// None is the empty feedback value.
var None = Feedback{}

// Info returns an informational message.
func Info(text string) Feedback {
	return Feedback{Kind: KindInfo, Text: text}
}

// Warning returns a warning message.
func Warning(text string) Feedback {
	return Feedback{Kind: KindWarning, Text: text}
}

// Error returns an error message.
func Error(text string) Feedback {
	return Feedback{Kind: KindError, Text: text}
}

// IsNone returns true if there is nothing to show.
func (f Feedback) IsNone() bool {
	return f.Kind == KindNone
}

// String renders the message the way the feedback line shows it.
func (f Feedback) String() string {
	switch f.Kind {
	case KindInfo:
		return "ℹ " + f.Text
	case KindWarning:
		return "⚠ " + f.Text
	case KindError:
		return "✗ " + f.Text
	default:
		return ""
	}
}
