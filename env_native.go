//go:build !(js && wasm)

package getrandom

import (
	"github.com/wippyai/getrandom/host"
	"github.com/wippyai/getrandom/host/native"
)

func defaultEnv() host.Env {
	return native.New()
}
