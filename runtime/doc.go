// Package runtime runs core WebAssembly guests against a per-instance entropy source.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.LoadWASM(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	results, err := inst.Call(ctx, "run", ptr, length)
//
// # Host Functions
//
// Guests import the entropy host module (named "getrandom" unless configured):
//
//	(import "getrandom" "fill" (func $fill (param i32 i32) (result i32)))
//
// fill writes len bytes at ptr in the guest's exported memory and returns 0,
// or an errors.Code value when the range is out of bounds or no secure source
// can be resolved. Nothing is written on a resolution failure.
//
// RegisterWASI additionally exposes get-random-u64 under
// "wasi:random/random@0.2.0". get-random-bytes needs the component model's
// list lowering and is not available to core modules.
//
// # Execution Contexts
//
// Every Instance owns one entropy.Context built from Config.NewEnv. The host
// is probed on the instance's first fill and the result is reused for the
// rest of the instance's life. Instances never share a resolved source.
//
// # Thread Safety
//
// Runtime and Module are safe for concurrent use. You can call
// Module.Instantiate() from multiple goroutines concurrently.
//
// Instance is NOT thread-safe. Each goroutine should have its own
// Instance, or access must be synchronized externally.
package runtime
