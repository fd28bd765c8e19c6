//go:build js && wasm

package getrandom

import (
	"github.com/wippyai/getrandom/host"
	"github.com/wippyai/getrandom/host/jsenv"
)

func defaultEnv() host.Env {
	return jsenv.New()
}
