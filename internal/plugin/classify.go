package plugin

import (
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/kite/internal/feedback"
)

// Classify maps the result of a script execution to user feedback.
//
// key is the hook key or command name the script ran for. The second result
// is false when the feedback slot should be left untouched: on success, and
// for unbound keys nobody would expect a binding for (plain characters and
// shifted keys).
func Classify(key string, err error) (feedback.Feedback, bool) {
	if err == nil {
		return feedback.None, false
	}

	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) || apiErr.Type != lua.ApiErrorRun {
		return feedback.Error(fmt.Sprintf("Failed to run Lua code: %v", err)), true
	}

	msg := firstLine(runtimeMessage(apiErr))
	switch {
	case strings.HasSuffix(msg, KeyNotBound):
		if key == " " {
			key = "space"
		}
		if strings.Contains(key, "_") && key != "_" && !strings.HasPrefix(key, "shift") {
			return feedback.Warning(fmt.Sprintf("The key %s is not bound", key)), true
		}
		return feedback.None, false
	case strings.HasSuffix(msg, CommandNotFound):
		return feedback.Error(fmt.Sprintf("The command '%s' is not defined", key)), true
	default:
		return feedback.Error(msg), true
	}
}

func runtimeMessage(err *lua.ApiError) string {
	if err.Object != nil {
		return err.Object.String()
	}
	return err.Error()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
