package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/getrandom/entropy"
	"github.com/wippyai/getrandom/errors"
)

type Instance struct {
	module  api.Module
	entropy *entropy.Context
}

// Call invokes an exported function with raw wasm values.
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn := i.module.ExportedFunction(name)
	if fn == nil {
		return nil, errors.New(errors.PhaseHost, errors.KindInvalidInput).
			Source(name).
			Detail("function not exported").
			Build()
	}
	return fn.Call(entropy.WithContext(ctx, i.entropy), args...)
}

// Entropy returns the instance's entropy context.
func (i *Instance) Entropy() *entropy.Context {
	return i.entropy
}

// Read copies length bytes of guest memory starting at offset.
func (i *Instance) Read(offset, length uint32) ([]byte, error) {
	mem := i.module.Memory()
	if mem == nil {
		return nil, errors.InvalidInput(errors.PhaseHost, "module has no memory")
	}
	view, ok := mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseHost, offset, length, mem.Size())
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, nil
}

func (i *Instance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}
