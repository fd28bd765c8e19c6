package runtime

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/getrandom/entropy"
	"github.com/wippyai/getrandom/errors"
)

type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
}

// Instantiate creates an instance with its own entropy context.
// The start function, if any, already sees that context.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	ec := entropy.NewContext(m.runtime.newEnv())

	// anonymous for parallel instantiation
	cfg := wazero.NewModuleConfig().WithName("")
	mod, err := m.runtime.wazero.InstantiateModule(entropy.WithContext(ctx, ec), m.compiled, cfg)
	if err != nil {
		return nil, errors.New(errors.PhaseHost, errors.KindInvalidInput).
			Detail("instantiate module").
			Cause(err).
			Build()
	}

	return &Instance{
		module:  mod,
		entropy: ec,
	}, nil
}

// Exports returns the names of exported functions, sorted.
func (m *Module) Exports() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ImportsEntropy reports whether the module imports the runtime's fill function.
func (m *Module) ImportsEntropy() bool {
	for _, def := range m.compiled.ImportedFunctions() {
		if mod, name, ok := def.Import(); ok && mod == m.runtime.moduleName && name == fillFuncName {
			return true
		}
	}
	return false
}

// Close releases the compiled module.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
