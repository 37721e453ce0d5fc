package api

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/kite/internal/task"
)

// TaskModule exposes the task scheduler to scripts as the global "tasks".
type TaskModule struct {
	tasks *task.Scheduler
}

// NewTaskModule creates the module over s.
func NewTaskModule(s *task.Scheduler) *TaskModule {
	return &TaskModule{tasks: s}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "tasks"
}

// Register installs the tasks global.
func (m *TaskModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "every", L.NewFunction(m.every))
	L.SetField(mod, "after", L.NewFunction(m.after))
	L.SetField(mod, "cancel", L.NewFunction(m.cancel))
	L.SetField(mod, "count", L.NewFunction(m.count))
	L.SetGlobal("tasks", mod)
	return nil
}

func milliseconds(L *lua.LState, n int) time.Duration {
	return time.Duration(L.CheckNumber(n) * lua.LNumber(time.Millisecond))
}

// every(ms, name) -> id
// Runs the global function name every ms milliseconds.
func (m *TaskModule) every(L *lua.LState) int {
	id, err := m.tasks.Every(milliseconds(L, 2), L.CheckString(3))
	if err != nil {
		L.RaiseError("every: %v", err)
		return 0
	}
	L.Push(lua.LString(id))
	return 1
}

// after(ms, name) -> id
// Runs the global function name once, ms milliseconds from now.
func (m *TaskModule) after(L *lua.LState) int {
	id, err := m.tasks.After(milliseconds(L, 2), L.CheckString(3))
	if err != nil {
		L.RaiseError("after: %v", err)
		return 0
	}
	L.Push(lua.LString(id))
	return 1
}

// cancel(id) -> bool
func (m *TaskModule) cancel(L *lua.LState) int {
	L.Push(lua.LBool(m.tasks.Cancel(L.CheckString(2))))
	return 1
}

// count() -> number
func (m *TaskModule) count(L *lua.LState) int {
	L.Push(lua.LNumber(m.tasks.Len()))
	return 1
}
