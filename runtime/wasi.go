package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/getrandom/errors"
	"github.com/wippyai/getrandom/wasi/preview2/random"
)

// RegisterWASI instantiates the wasi:random/random@0.2.0 host module.
// Must be called BEFORE instantiating modules that import it.
func (r *Runtime) RegisterWASI(ctx context.Context) error {
	r.wasiOnce.Do(func() {
		h := random.NewSecureRandomHost(r.newEnv())
		_, err := r.wazero.NewHostModuleBuilder(h.Namespace()).
			NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, _ api.Module, stack []uint64) {
				v, err := h.GetRandomU64(ctx)
				if err != nil {
					// wazero turns the panic into an error from the guest call
					panic(err)
				}
				stack[0] = v
			}), nil, []api.ValueType{i64}).
			Export("get-random-u64").
			Instantiate(ctx)
		if err != nil {
			r.wasiErr = errors.Registration(errors.PhaseHost, h.Namespace(), err)
		}
	})
	return r.wasiErr
}
