// Package random implements the WASI secure random interface over an entropy context.
//
// Implements:
//   - wasi:random/random@0.2.0 - Cryptographically secure random bytes
//
// Bytes come from the entropy.Context carried by the call's context.Context,
// so each guest instance draws from its own resolved source. Calls without one
// fall back to the host's own context. There are no insecure variants: a
// failing source yields no bytes rather than weaker ones.
package random
