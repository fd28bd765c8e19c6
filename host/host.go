// Package host declares the capability surface an entropy source is resolved from.
//
// A host is whatever runtime the calling code executes in: a browser window or
// worker, a Node-style server runtime, or a native Go process emulating one.
// The surface mirrors what those runtimes expose and nothing more:
//
//	self                      -> Env.Self
//	self.crypto / msCrypto    -> Global.Crypto / Global.MSCrypto
//	crypto.getRandomValues    -> Object.GetRandomValues
//	require("crypto")         -> Env.Require
//	crypto.randomFillSync     -> Module.RandomFillSync
//
// Undefined properties are reported as nil rather than through a
// host-specific notion of "undefined".
package host

import "errors"

// ErrNoGlobal is returned by Env.Self when the context has no browser-style global.
var ErrNoGlobal = errors.New("host: no global self object")

// CryptoModule is the module name passed to Env.Require for the server-side path.
const CryptoModule = "crypto"

// Env is the foreign environment of a single execution context.
// Values obtained from one Env must not be used from another context.
type Env interface {
	// Self returns the context's global object, or an error when none exists.
	Self() (Global, error)

	// Require loads a built-in module by name.
	Require(name string) (Module, error)
}

// Global is a browser-style global object (self or window).
type Global interface {
	// Crypto returns self.crypto, nil when undefined.
	Crypto() Object

	// MSCrypto returns the legacy self.msCrypto, nil when undefined.
	MSCrypto() Object
}

// Object is a browser crypto object.
type Object interface {
	// GetRandomValues returns the bound fill method, nil when undefined.
	GetRandomValues() FillFunc
}

// FillFunc fills a fixed-size byte array in place.
// Arrays larger than 65536 bytes are a host fault.
type FillFunc func(arr []byte)

// Module is a loaded server-side crypto module.
type Module interface {
	// RandomFillSync fills buf in place with no size ceiling.
	RandomFillSync(buf []byte)
}
