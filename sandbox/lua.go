package sandbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/parameter"
)

// errLoadTimeCall rejects top-level chunk code calling intrinsics during compile
var errLoadTimeCall = errors.New("intrinsic called while loading")

// LuaRuntime compiles Lua bots
// Chunks load text-only into a state with base, string, table and math libraries
// The top level must only define functions; the entry point runs in Run
type LuaRuntime struct {
	cfg config.SandboxConfig
}

// NewLuaRuntime creates the Lua engine
func NewLuaRuntime(cfg config.SandboxConfig) *LuaRuntime {
	return &LuaRuntime{cfg: cfg}
}

// Compile loads and runs the chunk in a scratch state and requires the entry point
func (r *LuaRuntime) Compile(ctx context.Context, name string, code []byte) (Module, error) {
	m := &luaModule{name: name, entry: r.cfg.EntryPoint, source: string(code)}

	l, err := m.load(ctx, func(l *lua.State, in Intrinsic) int {
		lua.Errorf(l, "%s: %s", errLoadTimeCall.Error(), in.Name)
		return 0
	})
	if err != nil {
		return nil, m.translate(ctx, err)
	}

	l.Global(m.entry)
	defer l.Pop(1)
	if !l.IsFunction(-1) {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, m.entry)
	}
	return m, nil
}

// Close is a no-op; Lua states are per run
func (r *LuaRuntime) Close(context.Context) error { return nil }

type luaModule struct {
	name   string
	entry  string
	source string

	fault error
}

func (m *luaModule) Name() string { return m.name }
func (m *luaModule) Kind() Kind   { return KindLua }

// newState opens only the safe libraries, removes file loaders and
// restricts load to source text
func newState() *lua.State {
	l := lua.NewState()
	for _, lib := range []lua.RegistryFunction{
		{Name: "_G", Function: lua.BaseOpen},
		{Name: "string", Function: lua.StringOpen},
		{Name: "table", Function: lua.TableOpen},
		{Name: "math", Function: lua.MathOpen},
	} {
		lua.Require(l, lib.Name, lib.Function, true)
		l.Pop(1)
	}
	for _, name := range []string{"dofile", "loadfile"} {
		l.PushNil()
		l.SetGlobal(name)
	}
	l.Register("load", loadText)
	return l
}

// loadText is base load limited to string chunks in text mode
// Precompiled chunks are not verified by the VM
func loadText(l *lua.State) int {
	src := lua.CheckString(l, 1)
	if err := lua.LoadBuffer(l, src, lua.OptString(l, 2, "=(load)"), "t"); err != nil {
		l.PushNil()
		l.Insert(-2)
		return 2
	}
	return 1
}

// watch raises an error inside guest code once ctx is done
// After cancellation the hook fires on every instruction so a guest pcall
// cannot swallow the error and keep looping
func watch(ctx context.Context, l *lua.State) {
	var hook lua.Hook
	hook = func(l *lua.State, _ lua.Debug) {
		if ctx.Err() == nil {
			return
		}
		lua.SetDebugHook(l, hook, lua.MaskCount, 1)
		lua.Errorf(l, "%s", ErrCancelled.Error())
	}
	lua.SetDebugHook(l, hook, lua.MaskCount, parameter.LuaHookInstructions)
}

// load builds a state with intrinsics bound to call and runs the chunk top level
func (m *luaModule) load(ctx context.Context, call func(l *lua.State, in Intrinsic) int) (*lua.State, error) {
	l := newState()
	watch(ctx, l)
	for _, in := range Intrinsics {
		l.Register(in.Name, func(l *lua.State) int {
			return call(l, in)
		})
	}

	if err := lua.LoadBuffer(l, m.source, m.name, "t"); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return l, nil
}

// Run binds intrinsics to b and calls the entry point
// Cancellation is observed on every intrinsic call and by an instruction count hook
func (m *luaModule) Run(ctx context.Context, b *Bridge) error {
	m.fault = nil
	l, err := m.load(ctx, func(l *lua.State, in Intrinsic) int {
		args := make([]int32, in.Params)
		for i := range args {
			args[i] = int32(lua.CheckInteger(l, i+1))
		}
		res, err := b.Invoke(ctx, in.Command, args...)
		if err != nil {
			m.fault = err
			lua.Errorf(l, "%s: %s", in.Name, err.Error())
			return 0
		}
		if in.Results > 0 {
			l.PushInteger(int(res))
		}
		return in.Results
	})
	if err != nil {
		return m.translate(ctx, err)
	}

	l.Global(m.entry)
	if !l.IsFunction(-1) {
		return fmt.Errorf("%w: %s", ErrMissingEntry, m.entry)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return m.translate(ctx, err)
	}
	return nil
}

func (m *luaModule) translate(ctx context.Context, err error) error {
	if m.fault != nil {
		return m.fault
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
	}
	return err
}

func (m *luaModule) Close(context.Context) error { return nil }
