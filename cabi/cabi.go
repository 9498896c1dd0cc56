// Package cabi adapts a revtext Codec to a C-string boundary: NUL-terminated
// input, NUL-terminated output in memory from a foreign allocator, and an
// explicit free. cmd/librevtext wires it to malloc/free and exports it.
//
// Every block handed out is recorded by address until freed, so a double free
// or a free of a pointer this boundary never returned is refused instead of
// reaching the allocator.
package cabi

import (
	"errors"
	"math"
	"sync"
	"unsafe"

	"github.com/unkn0wn-root/revtext"
)

// Allocator provides the memory returned across the boundary.
type Allocator interface {
	Alloc(n int) (unsafe.Pointer, error)
	Free(p unsafe.Pointer)
}

type Boundary struct {
	codec *revtext.Codec
	alloc Allocator
	log   revtext.Logger
	hooks revtext.Hooks

	mu   sync.Mutex
	live map[uintptr]int // address -> payload length (without terminator)
}

// New builds a boundary around a TextOnly codec configured by opts.
// opts.TextOnly is forced on: C strings cannot carry 0x00.
func New(opts revtext.Options, alloc Allocator) (*Boundary, error) {
	if alloc == nil {
		return nil, errors.New("cabi: allocator is required")
	}
	opts.TextOnly = true
	c, err := revtext.New(opts)
	if err != nil {
		return nil, err
	}
	b := &Boundary{
		codec: c,
		alloc: alloc,
		log:   revtext.NopLogger{},
		hooks: revtext.NopHooks{},
		live:  make(map[uintptr]int),
	}
	if opts.Logger != nil {
		b.log = opts.Logger
	}
	if opts.Hooks != nil {
		b.hooks = opts.Hooks
	}
	return b, nil
}

func (b *Boundary) Codec() *revtext.Codec { return b.codec }

// MaxLen is the longest C string the boundary reads. It covers the encoded
// form of a maximal text and never exceeds math.MaxInt32, so a length up to
// MaxLen converts to a C int.
func (b *Boundary) MaxLen() int {
	if m := b.codec.MaxInput(); m > 0 {
		if n := b.codec.EncodedLen(m); n >= 0 && n < math.MaxInt32 {
			return n
		}
	}
	return math.MaxInt32
}

// Encode returns a new NUL-terminated block holding the encoded form of in.
func (b *Boundary) Encode(in []byte) (unsafe.Pointer, error) {
	buf, err := b.codec.Encode(in)
	if err != nil {
		return nil, err
	}
	defer buf.Release()
	return b.export("encode", buf.Bytes())
}

// Decode returns a new NUL-terminated block holding the text in decodes to.
func (b *Boundary) Decode(in []byte) (unsafe.Pointer, error) {
	buf, err := b.codec.Decode(in)
	if err != nil {
		return nil, err
	}
	defer buf.Release()
	return b.export("decode", buf.Bytes())
}

func (b *Boundary) export(op string, data []byte) (unsafe.Pointer, error) {
	size := len(data) + 1
	p, err := b.alloc.Alloc(size)
	if err != nil || p == nil {
		b.hooks.AllocationFailed(op, size)
		b.log.Warn("boundary allocation failed", revtext.Fields{"op": op, "size": size})
		return nil, &revtext.Error{Op: op, Kind: revtext.ErrAllocation, Size: size, Err: err}
	}
	dst := unsafe.Slice((*byte)(p), size)
	copy(dst, data)
	dst[len(data)] = 0

	b.mu.Lock()
	b.live[uintptr(p)] = len(data)
	b.mu.Unlock()
	return p, nil
}

// Free returns a block to the allocator. nil is a no-op. A pointer that is
// not currently live (never returned, or already freed) yields
// ErrForeignBuffer and is not passed to the allocator.
func (b *Boundary) Free(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}
	b.mu.Lock()
	_, ok := b.live[uintptr(p)]
	delete(b.live, uintptr(p))
	b.mu.Unlock()

	if !ok {
		b.hooks.OwnershipViolation("free", "foreign_buffer")
		b.log.Warn("free of unknown pointer refused", revtext.Fields{"addr": uintptr(p)})
		return &revtext.Error{Op: "free", Kind: revtext.ErrForeignBuffer}
	}
	b.alloc.Free(p)
	return nil
}

// Live is the number of blocks handed out and not yet freed.
func (b *Boundary) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Bytes views a live block without its terminator. The view is valid until
// Free.
func (b *Boundary) Bytes(p unsafe.Pointer) ([]byte, bool) {
	b.mu.Lock()
	n, ok := b.live[uintptr(p)]
	b.mu.Unlock()
	if !ok {
		return nil, false
	}
	return unsafe.Slice((*byte)(p), n), true
}

// HeapAllocator serves blocks from the Go heap and pins them until Free.
// It backs the boundary in tests and in pure-Go embedders.
type HeapAllocator struct {
	mu     sync.Mutex
	blocks map[unsafe.Pointer][]byte
	Max    int // 0 => unlimited
}

var errTooLarge = errors.New("cabi: block exceeds allocator limit")

func (h *HeapAllocator) Alloc(n int) (unsafe.Pointer, error) {
	if n <= 0 || (h.Max > 0 && n > h.Max) {
		return nil, errTooLarge
	}
	block := make([]byte, n)
	p := unsafe.Pointer(&block[0])
	h.mu.Lock()
	if h.blocks == nil {
		h.blocks = make(map[unsafe.Pointer][]byte)
	}
	h.blocks[p] = block
	h.mu.Unlock()
	return p, nil
}

func (h *HeapAllocator) Free(p unsafe.Pointer) {
	h.mu.Lock()
	delete(h.blocks, p)
	h.mu.Unlock()
}

func (h *HeapAllocator) Outstanding() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks)
}
