package getrandom

import (
	"fmt"
	"sync"

	"github.com/wippyai/getrandom/entropy"
	"github.com/wippyai/getrandom/errors"
)

var (
	defaultMu  sync.Mutex
	defaultCtx *entropy.Context
)

func defaultContext() *entropy.Context {
	if defaultCtx == nil {
		defaultCtx = entropy.NewContext(defaultEnv())
	}
	return defaultCtx
}

// Fill fills dest with secure random bytes from the process-wide context.
// Calls are serialized; goroutines that need throughput should own an
// entropy.Context each.
func Fill(dest []byte) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultContext().Fill(dest)
}

// Bytes returns n secure random bytes. A negative n is an invalid input.
func Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseFill, fmt.Sprintf("negative length %d", n))
	}
	buf := make([]byte, n)
	if err := Fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Kind reports which provider the process-wide context resolved to, resolving
// it if needed.
func Kind() (entropy.Kind, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	ec := defaultContext()
	if err := ec.Fill(nil); err != nil {
		return 0, err
	}
	return ec.Source().Kind(), nil
}
