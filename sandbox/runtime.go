// Package sandbox runs untrusted bot programs against a fixed intrinsic table.
//
// Two engines are provided: WebAssembly modules through wazero, and Lua
// chunks through go-lua. Programs are selected by content; anything that
// starts with the wasm magic is compiled as wasm, everything else as Lua.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lixenwraith/war-arena/config"
)

var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// Kind names a guest engine
type Kind string

const (
	KindWasm Kind = "wasm"
	KindLua  Kind = "lua"
)

// Detect picks the engine for a program by its leading bytes
func Detect(code []byte) Kind {
	if bytes.HasPrefix(code, wasmMagic) {
		return KindWasm
	}
	return KindLua
}

// Module is a compiled, validated bot program
type Module interface {
	Name() string
	Kind() Kind

	// Run invokes the entry point and blocks until it returns, fails, or ctx is done
	Run(ctx context.Context, b *Bridge) error

	Close(ctx context.Context) error
}

// Runtime compiles bot programs
type Runtime interface {
	Compile(ctx context.Context, name string, code []byte) (Module, error)
	Close(ctx context.Context) error
}

// Host dispatches compilation to the wasm or lua engine by content
type Host struct {
	wasm   *WasmRuntime
	lua    *LuaRuntime
	logger *slog.Logger
}

// NewHost creates both engines from sandbox config
func NewHost(ctx context.Context, cfg config.SandboxConfig, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		wasm:   NewWasmRuntime(ctx, cfg),
		lua:    NewLuaRuntime(cfg),
		logger: logger,
	}
}

// Compile validates a program and returns a runnable module
func (h *Host) Compile(ctx context.Context, name string, code []byte) (Module, error) {
	kind := Detect(code)
	ctx, span := otel.Tracer("github.com/lixenwraith/war-arena/sandbox").Start(ctx, "sandbox.compile")
	span.SetAttributes(attribute.String("bot.name", name), attribute.String("bot.kind", string(kind)))
	defer span.End()

	var (
		m   Module
		err error
	)
	switch kind {
	case KindWasm:
		m, err = h.wasm.Compile(ctx, name, code)
	default:
		m, err = h.lua.Compile(ctx, name, code)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("compile %s (%s): %w", name, kind, err)
	}
	h.logger.Debug("bot compiled", "bot", name, "kind", kind, "bytes", len(code))
	return m, nil
}

// Close releases engine resources
func (h *Host) Close(ctx context.Context) error {
	return errors.Join(h.wasm.Close(ctx), h.lua.Close(ctx))
}
