// Package getrandom fills byte slices with cryptographically secure random bytes
// from whichever entropy provider the host runtime offers.
//
// The library targets hosts that expose randomness through incompatible APIs:
// browsers (self.crypto.getRandomValues, or msCrypto on old engines), Node-style
// runtimes (require("crypto").randomFillSync) and native Go processes. The
// provider is detected once per execution context and reused afterwards.
//
// # Architecture Overview
//
//	getrandom/           Root package with the process-wide Fill
//	├── entropy/         Source resolution, per-context cache, chunked fill
//	├── host/            Capability surface of a host runtime
//	│   ├── native/      Native Go process (crypto/rand behind require)
//	│   ├── jsenv/       syscall/js binding, js/wasm builds only
//	│   └── sim/         Programmable hosts for tests and diagnostics
//	├── runtime/         wazero runtime giving each wasm guest its own context
//	├── wasi/            WASI random host backed by an entropy context
//	├── errors/          Structured error types and stable codes
//	└── cmd/getrandom/   Command line tool
//
// # Quick Start
//
//	key := make([]byte, 32)
//	if err := getrandom.Fill(key); err != nil {
//	    log.Fatal(err)
//	}
//
// Code that manages its own execution contexts (workers, wasm instances)
// builds one entropy.Context per context instead:
//
//	ec := entropy.NewContext(native.New())
//	if err := ec.Fill(buf); err != nil {
//	    return err
//	}
//
// # Errors
//
// A browser-style host without crypto fails with errors.ErrCryptoUndefined, one
// whose crypto object lacks getRandomValues fails with
// errors.ErrGetRandomValuesUndefined, and a server-side host that cannot load
// its crypto module fails with errors.ErrModuleUnavailable. No weaker source is
// ever substituted.
package getrandom
