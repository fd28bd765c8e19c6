package runtime

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/getrandom/errors"
	"github.com/wippyai/getrandom/host"
	"github.com/wippyai/getrandom/host/native"
)

// DefaultModuleName is the import module guests use for the fill function.
const DefaultModuleName = "getrandom"

// Config holds configuration for runtime creation
type Config struct {
	// NewEnv builds the host of each new instance. Defaults to native.New.
	NewEnv func() host.Env

	// ModuleName overrides DefaultModuleName.
	ModuleName string

	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

type Runtime struct {
	wazero     wazero.Runtime
	newEnv     func() host.Env
	moduleName string
	wasiOnce   sync.Once
	wasiErr    error
}

// New creates a runtime whose instances resolve against the native host.
func New(ctx context.Context) (*Runtime, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a runtime and instantiates the entropy host module.
func NewWithConfig(ctx context.Context, cfg *Config) (*Runtime, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	r := &Runtime{
		newEnv:     func() host.Env { return native.New() },
		moduleName: DefaultModuleName,
	}

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.NewEnv != nil {
			r.newEnv = cfg.NewEnv
		}
		if cfg.ModuleName != "" {
			r.moduleName = cfg.ModuleName
		}
	}

	r.wazero = wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	if err := r.instantiateEntropyModule(ctx); err != nil {
		r.wazero.Close(ctx)
		return nil, err
	}
	return r, nil
}

// Close releases all runtime resources.
// All instances must be closed before calling this.
func (r *Runtime) Close(ctx context.Context) error {
	return r.wazero.Close(ctx)
}

// ModuleName returns the import module name of the fill function.
func (r *Runtime) ModuleName() string {
	return r.moduleName
}

// LoadWASM compiles a core WebAssembly module.
func (r *Runtime) LoadWASM(ctx context.Context, wasm []byte) (*Module, error) {
	if len(wasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "empty wasm binary")
	}

	compiled, err := r.wazero.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Detail("compile module").
			Cause(err).
			Build()
	}

	return &Module{
		runtime:  r,
		compiled: compiled,
	}, nil
}
