package random

import (
	"context"
	"encoding/binary"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/getrandom/entropy"
	"github.com/wippyai/getrandom/host"
)

// SecureRandomHost serves wasi:random/random from entropy contexts.
// Calls carrying an entropy.Context in ctx use it directly; all other calls
// share one fallback context, serialized by mu.
type SecureRandomHost struct {
	mu       sync.Mutex
	fallback *entropy.Context
}

// NewSecureRandomHost creates a host whose calls without a carried entropy
// context draw from a context over env.
func NewSecureRandomHost(env host.Env) *SecureRandomHost {
	return &SecureRandomHost{fallback: entropy.NewContext(env)}
}

func (h *SecureRandomHost) Namespace() string {
	return "wasi:random/random@0.2.0"
}

// MaxRandomBytes limits single-call allocation to prevent DoS (1MB).
const MaxRandomBytes = 1 << 20

func (h *SecureRandomHost) fill(ctx context.Context, buf []byte) error {
	if ec, ok := entropy.FromContext(ctx); ok {
		return ec.Fill(buf)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fallback.Fill(buf)
}

// GetRandomBytes returns len secure random bytes. Requests above
// MaxRandomBytes are capped: the result then holds exactly MaxRandomBytes
// bytes, and callers needing more must call again.
func (h *SecureRandomHost) GetRandomBytes(ctx context.Context, len uint64) ([]byte, error) {
	if len > MaxRandomBytes {
		len = MaxRandomBytes
	}
	buf := make([]byte, len)
	if err := h.fill(ctx, buf); err != nil {
		entropy.Logger().Error("get-random-bytes failed", zap.Error(err))
		return nil, err
	}
	return buf, nil
}

func (h *SecureRandomHost) GetRandomU64(ctx context.Context) (uint64, error) {
	var buf [8]byte
	if err := h.fill(ctx, buf[:]); err != nil {
		entropy.Logger().Error("get-random-u64 failed", zap.Error(err))
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
