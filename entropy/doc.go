// Package entropy resolves and drives the secure random source of an execution context.
//
// Resolution probes the host once: a browser-style global with crypto (or the
// legacy msCrypto) and a working getRandomValues yields a BrowserSource, a host
// without a global yields a NodeSource over require("crypto"). The outcome is
// cached in a Context, which belongs to exactly one execution context:
//
//	ec := entropy.NewContext(native.New())
//	key := make([]byte, 32)
//	if err := ec.Fill(key); err != nil {
//	    return err
//	}
//
// Only successful resolutions are cached. A failed Fill leaves the Context
// unresolved and the next Fill probes the host again.
//
// # Transfer limits
//
// Browser hosts reject getRandomValues calls over 65536 bytes, so BrowserSource
// splits the destination into MaxBrowserChunk sized pieces and fills them in
// order. NodeSource fills the whole destination in a single call.
//
// # Thread Safety
//
// Context is NOT thread-safe. Create one per goroutine, worker or wasm instance.
// Sources hold host references that are meaningless outside their context.
package entropy
