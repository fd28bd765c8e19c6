// Package errors provides structured error types for the getrandom module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a human-readable detail and an optional cause chain.
//
// The two kinds a host can produce while resolving an entropy source are
// permanent: the same host state reproduces them. Match them with errors.Is:
//
//	if errors.Is(err, errors.ErrCryptoUndefined) {
//		// browser-style host without a crypto object
//	}
//
// Every kind maps to a stable numeric Code, which is what wasm guests see.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
