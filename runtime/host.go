package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/getrandom/entropy"
	"github.com/wippyai/getrandom/errors"
)

const fillFuncName = "fill"

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

func (r *Runtime) instantiateEntropyModule(ctx context.Context) error {
	_, err := r.wazero.NewHostModuleBuilder(r.moduleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(hostFill), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export(fillFuncName).
		Instantiate(ctx)
	if err != nil {
		return errors.Registration(errors.PhaseHost, r.moduleName, err)
	}
	return nil
}

// hostFill implements fill(ptr, len i32) -> i32.
func hostFill(ctx context.Context, mod api.Module, stack []uint64) {
	ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	stack[0] = api.EncodeU32(fillGuest(ctx, mod, ptr, length))
}

func fillGuest(ctx context.Context, mod api.Module, ptr, length uint32) uint32 {
	ec, ok := entropy.FromContext(ctx)
	if !ok {
		Logger().Error("fill called without entropy context", zap.String("module", mod.Name()))
		return errors.CodeInvalidInput
	}

	mem := mod.Memory()
	if mem == nil {
		return errors.CodeOutOfBounds
	}
	dest, ok := mem.Read(ptr, length)
	if !ok {
		Logger().Debug("fill out of bounds",
			zap.Uint32("ptr", ptr),
			zap.Uint32("len", length),
			zap.Uint32("memory", mem.Size()))
		return errors.CodeOutOfBounds
	}

	if err := ec.Fill(dest); err != nil {
		Logger().Warn("fill failed", zap.Error(err))
		return errors.Code(err)
	}
	return 0
}
