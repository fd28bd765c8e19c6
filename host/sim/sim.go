package sim

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/wippyai/getrandom/host"
)

// MaxArray is the getRandomValues ceiling enforced by simulated browsers.
const MaxArray = 65536

// ErrQuotaExceeded is the panic value of an oversized getRandomValues call.
var ErrQuotaExceeded = errors.New("QuotaExceededError: array length exceeds 65536 bytes")

// ErrModuleNotFound is returned by Require for modules the Env does not carry.
var ErrModuleNotFound = errors.New("MODULE_NOT_FOUND")

// Env is a simulated execution context.
type Env struct {
	global       *Global
	module       *Module
	requireErr   error
	selfCalls    int
	requireCalls int
	required     []string
}

// NewBrowser returns a browser host with a working self.crypto.
func NewBrowser() *Env {
	return &Env{global: &Global{crypto: NewCrypto()}}
}

// NewLegacyBrowser returns a browser host exposing only self.msCrypto.
func NewLegacyBrowser() *Env {
	return &Env{global: &Global{msCrypto: NewCrypto()}}
}

// NewNode returns a host without a global that can load the crypto module.
func NewNode() *Env {
	return &Env{module: NewModule()}
}

// WithCrypto sets self.crypto, nil makes it undefined.
func (e *Env) WithCrypto(c *Crypto) *Env {
	e.ensureGlobal().crypto = c
	return e
}

// WithMSCrypto sets self.msCrypto, nil makes it undefined.
func (e *Env) WithMSCrypto(c *Crypto) *Env {
	e.ensureGlobal().msCrypto = c
	return e
}

// WithoutCrypto leaves the global in place but undefines both crypto properties.
func (e *Env) WithoutCrypto() *Env {
	g := e.ensureGlobal()
	g.crypto, g.msCrypto = nil, nil
	return e
}

// WithoutGlobal removes self, turning the Env into a server-side host.
func (e *Env) WithoutGlobal() *Env {
	e.global = nil
	return e
}

// WithModule sets the module returned by require("crypto").
func (e *Env) WithModule(m *Module) *Env {
	e.module = m
	return e
}

// WithRequireError makes every Require call fail with err.
func (e *Env) WithRequireError(err error) *Env {
	e.requireErr = err
	return e
}

func (e *Env) ensureGlobal() *Global {
	if e.global == nil {
		e.global = &Global{}
	}
	return e.global
}

// Self implements host.Env.
func (e *Env) Self() (host.Global, error) {
	e.selfCalls++
	if e.global == nil {
		return nil, host.ErrNoGlobal
	}
	return e.global, nil
}

// Require implements host.Env.
func (e *Env) Require(name string) (host.Module, error) {
	e.requireCalls++
	e.required = append(e.required, name)
	if e.requireErr != nil {
		return nil, e.requireErr
	}
	if name != host.CryptoModule || e.module == nil {
		return nil, fmt.Errorf("cannot find module %q: %w", name, ErrModuleNotFound)
	}
	return e.module, nil
}

// Global returns the simulated global, nil for server-side hosts.
func (e *Env) Global() *Global { return e.global }

// Module returns the simulated crypto module, if any.
func (e *Env) Module() *Module { return e.module }

// SelfCalls returns how many times Self was probed.
func (e *Env) SelfCalls() int { return e.selfCalls }

// RequireCalls returns how many times Require was called.
func (e *Env) RequireCalls() int { return e.requireCalls }

// Required returns the module names passed to Require, in order.
func (e *Env) Required() []string { return e.required }

// Global is a simulated browser global object.
type Global struct {
	crypto        *Crypto
	msCrypto      *Crypto
	cryptoReads   int
	msCryptoReads int
}

// Crypto implements host.Global.
func (g *Global) Crypto() host.Object {
	g.cryptoReads++
	if g.crypto == nil {
		return nil
	}
	return g.crypto
}

// MSCrypto implements host.Global.
func (g *Global) MSCrypto() host.Object {
	g.msCryptoReads++
	if g.msCrypto == nil {
		return nil
	}
	return g.msCrypto
}

// CryptoObject returns the simulated self.crypto.
func (g *Global) CryptoObject() *Crypto { return g.crypto }

// MSCryptoObject returns the simulated self.msCrypto.
func (g *Global) MSCryptoObject() *Crypto { return g.msCrypto }

// Reads returns how often crypto and msCrypto were read.
func (g *Global) Reads() (crypto, msCrypto int) {
	return g.cryptoReads, g.msCryptoReads
}

// Crypto is a simulated browser crypto object.
type Crypto struct {
	rand  io.Reader
	calls []int
	stub  bool
}

// NewCrypto returns a crypto object with a working getRandomValues.
func NewCrypto() *Crypto {
	return &Crypto{rand: rand.Reader}
}

// NewStubCrypto returns a crypto object whose getRandomValues is undefined.
func NewStubCrypto() *Crypto {
	return &Crypto{stub: true}
}

// WithReader sets the byte source behind getRandomValues.
func (c *Crypto) WithReader(r io.Reader) *Crypto {
	c.rand = r
	return c
}

// GetRandomValues implements host.Object.
func (c *Crypto) GetRandomValues() host.FillFunc {
	if c.stub {
		return nil
	}
	return c.getRandomValues
}

func (c *Crypto) getRandomValues(arr []byte) {
	if len(arr) > MaxArray {
		panic(ErrQuotaExceeded)
	}
	c.calls = append(c.calls, len(arr))
	if _, err := io.ReadFull(c.rand, arr); err != nil {
		panic(err)
	}
}

// Calls returns the array length of every getRandomValues call, in order.
func (c *Crypto) Calls() []int { return c.calls }

// Module is a simulated server-side crypto module.
type Module struct {
	rand  io.Reader
	calls []int
}

// NewModule returns a crypto module backed by crypto/rand.
func NewModule() *Module {
	return &Module{rand: rand.Reader}
}

// WithReader sets the byte source behind randomFillSync.
func (m *Module) WithReader(r io.Reader) *Module {
	m.rand = r
	return m
}

// RandomFillSync implements host.Module.
func (m *Module) RandomFillSync(buf []byte) {
	m.calls = append(m.calls, len(buf))
	if _, err := io.ReadFull(m.rand, buf); err != nil {
		panic(err)
	}
}

// Calls returns the buffer length of every randomFillSync call, in order.
func (m *Module) Calls() []int { return m.calls }

// CounterReader yields 0, 1, 2, ... wrapping at 251 so that a byte's value
// identifies its absolute position in the stream.
type CounterReader struct {
	pos int
}

func (r *CounterReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.pos % 251)
		r.pos++
	}
	return len(p), nil
}
