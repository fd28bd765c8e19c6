package entropy

import (
	"context"
	"encoding/binary"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/getrandom/host"
)

// Context is the resolution cache of one execution context.
// It starts unresolved and holds the first successfully resolved Source
// for the rest of its life.
type Context struct {
	env      host.Env
	source   Source
	attempts int
}

// NewContext creates an unresolved context over env.
func NewContext(env host.Env) *Context {
	return &Context{env: env}
}

// Fill fills dest entirely with secure random bytes, resolving the source
// on first use. On error, no guarantee is made about which bytes were written.
func (c *Context) Fill(dest []byte) error {
	src, err := c.resolve()
	if err != nil {
		return err
	}
	return src.Fill(dest)
}

func (c *Context) resolve() (Source, error) {
	if c.source != nil {
		return c.source, nil
	}

	c.attempts++
	src, err := Resolve(c.env)
	if err != nil {
		Logger().Warn("entropy source unavailable",
			zap.Int("attempt", c.attempts),
			zap.Error(err))
		return nil, err
	}
	c.source = src
	return src, nil
}

// Source returns the cached source, or nil while unresolved.
func (c *Context) Source() Source {
	return c.source
}

// Attempts returns how many times the host has been probed.
func (c *Context) Attempts() int {
	return c.attempts
}

// Uint64 returns a random little-endian uint64.
func (c *Context) Uint64() (uint64, error) {
	var buf [8]byte
	if err := c.Fill(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Reader returns an io.Reader over the context. Reads either fill p
// completely or fail with n == 0.
func (c *Context) Reader() io.Reader {
	return reader{c}
}

type reader struct {
	c *Context
}

func (r reader) Read(p []byte) (int, error) {
	if err := r.c.Fill(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying ec.
func WithContext(ctx context.Context, ec *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ec)
}

// FromContext returns the entropy context carried by ctx, if any.
func FromContext(ctx context.Context) (*Context, bool) {
	ec, ok := ctx.Value(contextKey{}).(*Context)
	return ec, ok && ec != nil
}
