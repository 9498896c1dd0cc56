package revtext

import "sync/atomic"

// Buffer is an owned result of Encode or Decode.
//
// The caller owns a Buffer from the moment it is returned until Release.
// Bytes is a view into memory the codec recycles, so it must not be retained
// past Release; use String or copy the bytes to keep them. Release is safe to
// call more than once: the first call frees, later calls report ErrReleased.
// A Buffer must not be released concurrently with its own use.
type Buffer struct {
	c        *Codec
	op       string
	b        []byte
	released atomic.Bool
}

// Bytes returns the buffer contents, or nil once released. The slice is
// capped at its length; appending to it copies.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.released.Load() {
		return nil
	}
	return b.b[:len(b.b):len(b.b)]
}

// String returns a copy of the contents ("" once released).
func (b *Buffer) String() string { return string(b.Bytes()) }

// Len returns the content length (0 once released).
func (b *Buffer) Len() int { return len(b.Bytes()) }

func (b *Buffer) Released() bool { return b == nil || b.released.Load() }

// Release hands the memory back to the codec that produced it.
// A nil Buffer is a no-op.
func (b *Buffer) Release() error {
	if b == nil {
		return nil
	}
	if b.c == nil {
		return &Error{Op: "release", Kind: ErrForeignBuffer}
	}
	if !b.released.CompareAndSwap(false, true) {
		b.c.violation("release", "double_release", b.op)
		return &Error{Op: "release", Kind: ErrReleased}
	}
	mem := b.b
	b.b = nil
	b.c.alloc.free(mem)
	return nil
}
