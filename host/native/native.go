// Package native exposes the operating system CSPRNG as a server-side host.
//
// A native Go process has no browser global, so Self always fails and
// resolution takes the module path. The crypto module fills from crypto/rand.
package native

import (
	"crypto/rand"
	"fmt"

	"github.com/wippyai/getrandom/host"
)

// Env is the host of a native Go process.
type Env struct{}

func New() *Env {
	return &Env{}
}

func (e *Env) Self() (host.Global, error) {
	return nil, host.ErrNoGlobal
}

func (e *Env) Require(name string) (host.Module, error) {
	if name != host.CryptoModule {
		return nil, fmt.Errorf("native: no built-in module %q", name)
	}
	return cryptoModule{}, nil
}

type cryptoModule struct{}

// RandomFillSync reads from the OS source. crypto/rand never returns short reads.
func (cryptoModule) RandomFillSync(buf []byte) {
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("native: crypto/rand failed: %v", err))
	}
}
