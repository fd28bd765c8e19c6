package entropy

import (
	"github.com/wippyai/getrandom/host"
)

// MaxBrowserChunk is the largest array getRandomValues accepts in one call.
const MaxBrowserChunk = 65536

// Kind tags the provider behind a Source.
type Kind int

const (
	KindNode Kind = iota + 1
	KindBrowser
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindBrowser:
		return "browser"
	default:
		return "unknown"
	}
}

// Source is a resolved entropy provider.
type Source interface {
	// Kind reports which provider variant this is.
	Kind() Kind

	// Fill overwrites every byte of dest with provider output.
	Fill(dest []byte) error
}

// NodeSource fills through a server-side module's randomFillSync.
type NodeSource struct {
	module host.Module
}

func NewNodeSource(m host.Module) *NodeSource {
	return &NodeSource{module: m}
}

func (s *NodeSource) Kind() Kind { return KindNode }

// Fill issues one randomFillSync call over the whole of dest.
func (s *NodeSource) Fill(dest []byte) error {
	if len(dest) == 0 {
		return nil
	}
	s.module.RandomFillSync(dest)
	return nil
}

// BrowserSource fills through a crypto object's getRandomValues.
type BrowserSource struct {
	fill host.FillFunc
	name string
}

func NewBrowserSource(name string, fill host.FillFunc) *BrowserSource {
	return &BrowserSource{name: name, fill: fill}
}

func (s *BrowserSource) Kind() Kind { return KindBrowser }

// Name returns the global property the crypto object was read from.
func (s *BrowserSource) Name() string { return s.name }

// Fill splits dest into MaxBrowserChunk pieces. Each piece is filled in a
// fresh transfer array and copied back at its original offset.
func (s *BrowserSource) Fill(dest []byte) error {
	for off := 0; off < len(dest); off += MaxBrowserChunk {
		chunk := dest[off:min(off+MaxBrowserChunk, len(dest))]
		arr := make([]byte, len(chunk))
		s.fill(arr)
		copy(chunk, arr)
	}
	return nil
}
