package lua

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single top-level script execution.
// Zero means no deadline: a hook may legitimately block in a prompt.
const DefaultExecutionTimeout time.Duration = 0

// State wraps gopher-lua with the editor's execution policy.
//
// gopher-lua's LState is not goroutine-safe. All operations on a State must
// happen on the goroutine that owns the editor.
type State struct {
	L *lua.LState

	executionTimeout time.Duration
	systemLibs       bool

	// depth counts nested executions so only the outermost one installs and
	// removes the deadline context.
	depth  int
	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout bounds each top-level execution. Zero disables the
// deadline. A script that exceeds it fails with a runtime error.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithSystemLibs controls whether the os and io libraries are opened.
// They are opened by default since user configuration scripts read files
// and environment variables.
func WithSystemLibs(enabled bool) StateOption {
	return func(s *State) {
		s.systemLibs = enabled
	}
}

// NewState creates a Lua state with the standard libraries opened.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		systemLibs:       true,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	state.L = L

	if err := openLibraries(L, state.systemLibs); err != nil {
		L.Close()
		return nil, fmt.Errorf("open lua libraries: %w", err)
	}
	return state, nil
}

type library struct {
	name string
	open lua.LGFunction
}

var (
	baseLibraries = []library{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.CoroutineLibName, lua.OpenCoroutine},
	}
	systemLibraries = []library{
		{lua.OsLibName, lua.OpenOs},
		{lua.IoLibName, lua.OpenIo},
	}
)

func openLibraries(L *lua.LState, system bool) error {
	libs := baseLibraries
	if system {
		libs = append(append([]library{}, baseLibraries...), systemLibraries...)
	}

	for _, lib := range libs {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return fmt.Errorf("%s: %w", lib.name, err)
		}
	}
	return nil
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a chunk of Lua source.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// run executes fn with panic recovery, installing the execution deadline
// for the outermost call.
func (s *State) run(fn func() error) (err error) {
	if s.depth == 0 && s.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
		s.L.SetContext(ctx)
		defer func() {
			s.L.RemoveContext()
			cancel()
		}()
	}

	s.depth++
	defer func() { s.depth-- }()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Function returns the global function called name.
func (s *State) Function(name string) (*lua.LFunction, bool) {
	if s.closed {
		return nil, false
	}
	fn, ok := s.L.GetGlobal(name).(*lua.LFunction)
	return fn, ok
}

// CallFunction calls fn with the given arguments.
// Returns an empty slice (not nil) if the function returns no values.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrStateClosed
	}

	// Record stack top before pushing anything
	stackTop := s.L.GetTop()

	err := s.run(func() error {
		s.L.Push(fn)
		for _, arg := range args {
			s.L.Push(arg)
		}
		return s.L.PCall(len(args), lua.MultRet, nil)
	})
	if err != nil {
		s.L.SetTop(stackTop)
		return nil, err
	}

	nRet := s.L.GetTop() - stackTop
	if nRet <= 0 {
		return []lua.LValue{}, nil
	}
	results := make([]lua.LValue, nRet)
	for i := 0; i < nRet; i++ {
		results[i] = s.L.Get(stackTop + i + 1)
	}
	s.L.Pop(nRet)
	return results, nil
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// NewTable creates an empty table owned by this state.
func (s *State) NewTable() *lua.LTable {
	return s.L.NewTable()
}

// LuaState returns the underlying gopher-lua state.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
