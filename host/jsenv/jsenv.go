//go:build js && wasm

// Package jsenv binds the host capability surface to a JavaScript runtime
// through syscall/js. It is only built for GOOS=js GOARCH=wasm.
//
// Browser windows and workers expose self; Node exposes require, which the
// Go wasm_exec_node.js loader installs on globalThis.
package jsenv

import (
	"fmt"
	"syscall/js"

	"github.com/wippyai/getrandom/host"
)

// Env is the JavaScript host of the current Go wasm instance.
type Env struct{}

func New() *Env {
	return &Env{}
}

func (e *Env) Self() (host.Global, error) {
	self, err := get(js.Global(), "self")
	if err != nil || !defined(self) {
		return nil, host.ErrNoGlobal
	}
	return global{self}, nil
}

func (e *Env) Require(name string) (m host.Module, err error) {
	require := js.Global().Get("require")
	if require.Type() != js.TypeFunction {
		return nil, fmt.Errorf("jsenv: require is not a function")
	}
	defer recoverJS(&err)
	mod := require.Invoke(name)
	if !defined(mod) {
		return nil, fmt.Errorf("jsenv: require(%q) returned %s", name, mod.Type())
	}
	return module{mod}, nil
}

type global struct {
	v js.Value
}

func (g global) Crypto() host.Object   { return object(g.v, "crypto") }
func (g global) MSCrypto() host.Object { return object(g.v, "msCrypto") }

func object(v js.Value, name string) host.Object {
	o, err := get(v, name)
	if err != nil || !defined(o) {
		return nil
	}
	return cryptoObject{o}
}

type cryptoObject struct {
	v js.Value
}

func (c cryptoObject) GetRandomValues() host.FillFunc {
	fn, err := get(c.v, "getRandomValues")
	if err != nil || fn.Type() != js.TypeFunction {
		return nil
	}
	return func(arr []byte) {
		u8 := js.Global().Get("Uint8Array").New(len(arr))
		c.v.Call("getRandomValues", u8)
		js.CopyBytesToGo(arr, u8)
	}
}

type module struct {
	v js.Value
}

func (m module) RandomFillSync(buf []byte) {
	u8 := js.Global().Get("Uint8Array").New(len(buf))
	m.v.Call("randomFillSync", u8)
	js.CopyBytesToGo(buf, u8)
}

// get reads a property, turning a thrown getter into an error.
func get(v js.Value, name string) (res js.Value, err error) {
	defer recoverJS(&err)
	return v.Get(name), nil
}

func defined(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}

func recoverJS(err *error) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(js.Error); ok {
			*err = jsErr
			return
		}
		panic(r)
	}
}
