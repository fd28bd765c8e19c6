package runtime

import (
	"context"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/getrandom/entropy"
	"github.com/wippyai/getrandom/errors"
	"github.com/wippyai/getrandom/host"
	"github.com/wippyai/getrandom/host/sim"
)

// envRecorder hands out a fresh sim host per instance and keeps them for inspection.
type envRecorder struct {
	newEnv func() *sim.Env
	envs   []*sim.Env
}

func (r *envRecorder) next() host.Env {
	env := r.newEnv()
	r.envs = append(r.envs, env)
	return env
}

func counterBrowser() *sim.Env {
	return sim.NewBrowser().WithCrypto(sim.NewCrypto().WithReader(&sim.CounterReader{}))
}

func newTestRuntime(t *testing.T, rec *envRecorder) *Runtime {
	t.Helper()
	ctx := context.Background()
	rt, err := NewWithConfig(ctx, &Config{NewEnv: rec.next})
	if err != nil {
		t.Fatalf("create runtime: %v", err)
	}
	t.Cleanup(func() { rt.Close(ctx) })
	return rt
}

func instantiate(t *testing.T, rt *Runtime, wasm []byte) *Instance {
	t.Helper()
	ctx := context.Background()
	mod, err := rt.LoadWASM(ctx, wasm)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	inst, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	t.Cleanup(func() { inst.Close(ctx) })
	return inst
}

func callRun(t *testing.T, inst *Instance, ptr, length uint32) uint32 {
	t.Helper()
	results, err := inst.Call(context.Background(), "run", api.EncodeU32(ptr), api.EncodeU32(length))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return api.DecodeU32(results[0])
}

func TestFill_ChunkedIntoGuestMemory(t *testing.T) {
	rec := &envRecorder{newEnv: counterBrowser}
	rt := newTestRuntime(t, rec)
	inst := instantiate(t, rt, fillGuestWasm(DefaultModuleName))

	const offset, length = 1024, entropy.MaxBrowserChunk + 4464

	if code := callRun(t, inst, offset, length); code != 0 {
		t.Fatalf("fill returned %#x", code)
	}

	got, err := inst.Read(offset, length)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range got {
		if b != byte(i%251) {
			t.Fatalf("guest byte %d = %d, want %d", i, b, i%251)
		}
	}

	before, err := inst.Read(offset-4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range before {
		if b != 0 {
			t.Fatal("bytes before the destination were written")
		}
	}

	calls := rec.envs[0].Global().CryptoObject().Calls()
	if len(calls) != 2 || calls[0] != entropy.MaxBrowserChunk || calls[1] != 4464 {
		t.Errorf("crypto calls = %v, want [65536 4464]", calls)
	}
}

func TestFill_OutOfBounds(t *testing.T) {
	rec := &envRecorder{newEnv: sim.NewNode}
	rt := newTestRuntime(t, rec)
	inst := instantiate(t, rt, fillGuestWasm(DefaultModuleName))

	const pages = 2
	if code := callRun(t, inst, pages*65536-10, 20); code != errors.CodeOutOfBounds {
		t.Errorf("fill returned %#x, want CodeOutOfBounds", code)
	}
	if calls := rec.envs[0].Module().Calls(); len(calls) != 0 {
		t.Errorf("module calls = %v, want none", calls)
	}
}

func TestFill_ResolutionErrors(t *testing.T) {
	tests := []struct {
		name   string
		newEnv func() *sim.Env
		want   uint32
	}{
		{
			name:   "crypto undefined",
			newEnv: func() *sim.Env { return sim.NewBrowser().WithoutCrypto() },
			want:   errors.CodeCryptoUndefined,
		},
		{
			name:   "getRandomValues undefined",
			newEnv: func() *sim.Env { return sim.NewBrowser().WithCrypto(sim.NewStubCrypto()) },
			want:   errors.CodeGetRandomValuesUndefined,
		},
		{
			name:   "module unavailable",
			newEnv: func() *sim.Env { return sim.NewNode().WithModule(nil) },
			want:   errors.CodeModuleUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &envRecorder{newEnv: tt.newEnv}
			rt := newTestRuntime(t, rec)
			inst := instantiate(t, rt, fillGuestWasm(DefaultModuleName))

			for i := 0; i < 2; i++ {
				if code := callRun(t, inst, 0, 16); code != tt.want {
					t.Fatalf("attempt %d: fill returned %#x, want %#x", i, code, tt.want)
				}
			}
			// failures are re-probed on every call
			if got := rec.envs[0].SelfCalls(); got != 2 {
				t.Errorf("SelfCalls() = %d, want 2", got)
			}
		})
	}
}

func TestInstance_OwnEntropyContext(t *testing.T) {
	rec := &envRecorder{newEnv: sim.NewBrowser}
	rt := newTestRuntime(t, rec)

	ctx := context.Background()
	mod, err := rt.LoadWASM(ctx, fillGuestWasm(DefaultModuleName))
	if err != nil {
		t.Fatal(err)
	}
	defer mod.Close(ctx)

	var insts []*Instance
	for i := 0; i < 3; i++ {
		inst, err := mod.Instantiate(ctx)
		if err != nil {
			t.Fatal(err)
		}
		defer inst.Close(ctx)
		insts = append(insts, inst)
	}

	for _, inst := range insts {
		for j := 0; j < 4; j++ {
			if code := callRun(t, inst, 0, 64); code != 0 {
				t.Fatalf("fill returned %#x", code)
			}
		}
	}

	if len(rec.envs) != 3 {
		t.Fatalf("created %d hosts, want one per instance", len(rec.envs))
	}
	for i, env := range rec.envs {
		if env.SelfCalls() != 1 {
			t.Errorf("instance %d probed %d times, want 1", i, env.SelfCalls())
		}
		if got := len(env.Global().CryptoObject().Calls()); got != 4 {
			t.Errorf("instance %d made %d crypto calls, want 4", i, got)
		}
	}
	if insts[0].Entropy() == insts[1].Entropy() {
		t.Error("instances share an entropy context")
	}
}

func TestRuntime_DefaultNativeHost(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close(ctx)

	inst := instantiate(t, rt, fillGuestWasm(DefaultModuleName))
	if code := callRun(t, inst, 0, 32); code != 0 {
		t.Fatalf("fill returned %#x", code)
	}

	data, err := inst.Read(0, 32)
	if err != nil {
		t.Fatal(err)
	}
	allZero := true
	for _, b := range data {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Error("random bytes should not all be zero")
	}
	if k := inst.Entropy().Source().Kind(); k != entropy.KindNode {
		t.Errorf("native host resolved to %v, want node", k)
	}
}

func TestRuntime_CustomModuleName(t *testing.T) {
	ctx := context.Background()
	rt, err := NewWithConfig(ctx, &Config{ModuleName: "env"})
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close(ctx)

	if rt.ModuleName() != "env" {
		t.Errorf("ModuleName() = %q", rt.ModuleName())
	}

	mod, err := rt.LoadWASM(ctx, fillGuestWasm("env"))
	if err != nil {
		t.Fatal(err)
	}
	if !mod.ImportsEntropy() {
		t.Error("ImportsEntropy() = false, want true")
	}

	other, err := rt.LoadWASM(ctx, fillGuestWasm(DefaultModuleName))
	if err != nil {
		t.Fatal(err)
	}
	if other.ImportsEntropy() {
		t.Error("module importing getrandom should not match env")
	}
	if _, err := other.Instantiate(ctx); err == nil {
		t.Error("instantiate should fail with unresolved import")
	}
}

func TestModule_Exports(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadWASM(ctx, fillGuestWasm(DefaultModuleName))
	if err != nil {
		t.Fatal(err)
	}
	exports := mod.Exports()
	if len(exports) != 1 || exports[0] != "run" {
		t.Errorf("Exports() = %v, want [run]", exports)
	}
}

func TestInstance_CallUnknown(t *testing.T) {
	rt := newTestRuntime(t, &envRecorder{newEnv: sim.NewNode})
	inst := instantiate(t, rt, fillGuestWasm(DefaultModuleName))

	_, err := inst.Call(context.Background(), "missing")
	if !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("Call(missing) error = %v", err)
	}
}

func TestInstance_ReadOutOfBounds(t *testing.T) {
	rt := newTestRuntime(t, &envRecorder{newEnv: sim.NewNode})
	inst := instantiate(t, rt, fillGuestWasm(DefaultModuleName))

	if _, err := inst.Read(2*65536, 1); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("Read past memory error = %v", err)
	}
}

func TestLoadWASM_Invalid(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close(ctx)

	if _, err := rt.LoadWASM(ctx, nil); err == nil {
		t.Error("empty binary should fail")
	}
	if _, err := rt.LoadWASM(ctx, []byte("not wasm")); err == nil {
		t.Error("garbage should fail")
	}
}

func TestRegisterWASI(t *testing.T) {
	ctx := context.Background()
	rec := &envRecorder{newEnv: sim.NewNode}
	rt := newTestRuntime(t, rec)

	mod, err := rt.LoadWASM(ctx, u64GuestWasm())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mod.Instantiate(ctx); err == nil {
		t.Fatal("instantiate should fail before RegisterWASI")
	}

	if err := rt.RegisterWASI(ctx); err != nil {
		t.Fatalf("RegisterWASI: %v", err)
	}
	if err := rt.RegisterWASI(ctx); err != nil {
		t.Fatalf("second RegisterWASI: %v", err)
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer inst.Close(ctx)

	results, err := inst.Call(ctx, "u64")
	if err != nil {
		t.Fatal(err)
	}
	if results[0] == 0 {
		t.Error("get-random-u64 returned 0, unlikely")
	}

	// the call drew from the instance's own context, not the host fallback
	instanceEnv := rec.envs[len(rec.envs)-1]
	if got := instanceEnv.Module().Calls(); len(got) != 1 || got[0] != 8 {
		t.Errorf("instance module calls = %v, want [8]", got)
	}
}

func TestRegisterWASI_FailingSourceFailsCall(t *testing.T) {
	ctx := context.Background()
	rec := &envRecorder{newEnv: func() *sim.Env { return sim.NewBrowser().WithoutCrypto() }}
	rt := newTestRuntime(t, rec)
	if err := rt.RegisterWASI(ctx); err != nil {
		t.Fatalf("RegisterWASI: %v", err)
	}

	inst := instantiate(t, rt, u64GuestWasm())
	defer inst.Close(ctx)

	for attempt := 1; attempt <= 2; attempt++ {
		results, err := inst.Call(ctx, "u64")
		if err == nil {
			t.Fatalf("attempt %d: u64 returned %v without error", attempt, results)
		}
		if !strings.Contains(err.Error(), string(errors.KindCryptoUndefined)) {
			t.Errorf("attempt %d: error = %v, want %s", attempt, err, errors.KindCryptoUndefined)
		}
	}

	if got := inst.Entropy().Attempts(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}
