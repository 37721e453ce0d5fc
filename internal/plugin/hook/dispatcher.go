package hook

import (
	"fmt"
	"strings"
)

// Executor runs Lua source. Satisfied by *lua.State.
type Executor interface {
	DoString(code string) error
}

// Dispatcher generates and runs hook and command invocations.
type Dispatcher struct {
	x Executor
}

// NewDispatcher creates a dispatcher over x.
func NewDispatcher(x Executor) *Dispatcher {
	return &Dispatcher{x: x}
}

// BeforeKey returns the event_mapping key holding the before hook for key.
func BeforeKey(key string) string {
	return "before:" + key
}

// BeforeSource returns the Lua source that runs the before hook for key.
func BeforeSource(key string) string {
	return fmt.Sprintf("local f = event_mapping[%s] if f then f() end", Quote(BeforeKey(key)))
}

// AfterSource returns the Lua source that runs the after hook for key.
func AfterSource(key string) string {
	return fmt.Sprintf("local f = event_mapping[%s] or error('key not bound') f()", Quote(key))
}

// CommandSource returns the Lua source that calls command name with args.
func CommandSource(name string, args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Quote(a)
	}
	return fmt.Sprintf("(commands[%s] or error('command not found'))({%s})",
		Quote(name), strings.Join(quoted, ", "))
}

// RunBefore runs the before hook for key. A missing hook is not an error.
func (d *Dispatcher) RunBefore(key string) error {
	return d.x.DoString(BeforeSource(key))
}

// RunAfter runs the after hook for key. A missing hook raises a runtime
// error ending in "key not bound".
func (d *Dispatcher) RunAfter(key string) error {
	return d.x.DoString(AfterSource(key))
}

// RunCommand parses and runs a command line. It returns the command name so
// the caller can classify a failure against it. A blank line does nothing.
func (d *Dispatcher) RunCommand(line string) (string, error) {
	name, args := ParseCommand(line)
	if name == "" {
		return "", nil
	}
	return name, d.x.DoString(CommandSource(name, args))
}

// ParseCommand splits a command line into its name and whitespace separated
// arguments.
func ParseCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// Quote returns s as a single-quoted Lua string literal.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, "\\%03d", c)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
