package sandbox

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/parameter"
)

// WasmRuntime compiles WebAssembly bots, one wazero runtime per bot
// Runtimes share a compilation cache so identical binaries compile once
type WasmRuntime struct {
	cfg   config.SandboxConfig
	cache wazero.CompilationCache
}

// NewWasmRuntime creates the engine with a fresh compilation cache
func NewWasmRuntime(_ context.Context, cfg config.SandboxConfig) *WasmRuntime {
	return &WasmRuntime{cfg: cfg, cache: wazero.NewCompilationCache()}
}

func (w *WasmRuntime) runtimeConfig() wazero.RuntimeConfig {
	return wazero.NewRuntimeConfig().
		WithCompilationCache(w.cache).
		WithMemoryLimitPages(w.cfg.MemoryLimitPages).
		WithCloseOnContextDone(true)
}

// Compile validates every import against the intrinsic table and requires the entry point
func (w *WasmRuntime) Compile(ctx context.Context, name string, code []byte) (Module, error) {
	r := wazero.NewRuntimeWithConfig(ctx, w.runtimeConfig())

	compiled, err := r.CompileModule(ctx, code)
	if err != nil {
		r.Close(ctx)
		return nil, err
	}
	if err := w.validate(compiled, code); err != nil {
		r.Close(ctx)
		return nil, err
	}

	return &wasmModule{
		name:     name,
		entry:    w.cfg.EntryPoint,
		runtime:  r,
		compiled: compiled,
	}, nil
}

// validate rejects every import that is not an intrinsic function
// Tables, memories and globals are never provided by the host
func (w *WasmRuntime) validate(compiled wazero.CompiledModule, code []byte) error {
	imports, err := readImports(code)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownImport, err)
	}
	for _, imp := range imports {
		if imp.kind != importFunc {
			return fmt.Errorf("%w: %s", ErrUnknownImport, imp)
		}
	}

	for _, fd := range compiled.ImportedFunctions() {
		module, field, _ := fd.Import()
		if module != parameter.ImportModule {
			return fmt.Errorf("%w: %s.%s", ErrUnknownImport, module, field)
		}
		in, ok := LookupName(field)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownImport, module, field)
		}
		if !slices.Equal(fd.ParamTypes(), i32Types(in.Params)) || !slices.Equal(fd.ResultTypes(), i32Types(in.Results)) {
			return fmt.Errorf("%w: %s.%s has %v -> %v, want %d i32 -> %d i32",
				ErrSignatureMismatch, module, field, fd.ParamTypes(), fd.ResultTypes(), in.Params, in.Results)
		}
	}

	entry, ok := compiled.ExportedFunctions()[w.cfg.EntryPoint]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingEntry, w.cfg.EntryPoint)
	}
	if len(entry.ParamTypes()) != 0 {
		return fmt.Errorf("%w: %s must take no parameters", ErrSignatureMismatch, w.cfg.EntryPoint)
	}
	return nil
}

// Close releases the shared compilation cache
func (w *WasmRuntime) Close(ctx context.Context) error {
	return w.cache.Close(ctx)
}

type wasmModule struct {
	name     string
	entry    string
	runtime  wazero.Runtime
	compiled wazero.CompiledModule

	mu    sync.Mutex
	fault error
}

func (m *wasmModule) Name() string { return m.name }
func (m *wasmModule) Kind() Kind   { return KindWasm }

// Run links the intrinsics to b, instantiates the guest without start functions and calls the entry point
func (m *wasmModule) Run(ctx context.Context, b *Bridge) error {
	if err := m.linkHost(ctx, b); err != nil {
		return fmt.Errorf("link host: %w", err)
	}

	inst, err := m.runtime.InstantiateModule(ctx, m.compiled,
		wazero.NewModuleConfig().WithName(m.name).WithStartFunctions())
	if err != nil {
		return m.translate(ctx, fmt.Errorf("instantiate: %w", err))
	}
	defer inst.Close(ctx)

	fn := inst.ExportedFunction(m.entry)
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrMissingEntry, m.entry)
	}
	if _, err := fn.Call(ctx); err != nil {
		return m.translate(ctx, err)
	}
	return nil
}

func (m *wasmModule) linkHost(ctx context.Context, b *Bridge) error {
	builder := m.runtime.NewHostModuleBuilder(parameter.ImportModule)
	for _, in := range Intrinsics {
		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(m.hostFunc(b, in), i32Types(in.Params), i32Types(in.Results)).
			WithName(in.Name).
			Export(in.Name)
	}
	_, err := builder.Instantiate(ctx)
	return err
}

// hostFunc adapts one intrinsic to the wasm stack; bridge errors abort the guest by panic
func (m *wasmModule) hostFunc(b *Bridge, in Intrinsic) api.GoModuleFunc {
	return func(ctx context.Context, _ api.Module, stack []uint64) {
		args := make([]int32, in.Params)
		for i := range args {
			args[i] = api.DecodeI32(stack[i])
		}
		res, err := b.Invoke(ctx, in.Command, args...)
		if err != nil {
			m.mu.Lock()
			m.fault = err
			m.mu.Unlock()
			panic(err)
		}
		if in.Results > 0 {
			stack[0] = api.EncodeI32(res)
		}
	}
}

// translate prefers the recorded host fault, then cancellation, then the raw guest error
func (m *wasmModule) translate(ctx context.Context, err error) error {
	m.mu.Lock()
	fault := m.fault
	m.mu.Unlock()
	if fault != nil {
		return fault
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
	}
	return err
}

// Close tears down the bot's runtime and everything instantiated in it
func (m *wasmModule) Close(ctx context.Context) error {
	return errors.Join(m.compiled.Close(ctx), m.runtime.Close(ctx))
}

func i32Types(n int) []api.ValueType {
	out := make([]api.ValueType, n)
	for i := range out {
		out[i] = api.ValueTypeI32
	}
	return out
}
