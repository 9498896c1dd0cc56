package revtext

import (
	"bytes"
	"errors"
)

var errNUL = errors.New("NUL byte in text value")

// Encode transforms in into a new Buffer of length EncodedLen(len(in)).
// in is only read. On error no Buffer is transferred.
func (c *Codec) Encode(in []byte) (*Buffer, error) {
	const op = "encode"
	if c.maxInput > 0 && len(in) > c.maxInput {
		return nil, c.reject(op, len(in), "too_large", nil)
	}
	if c.textOnly {
		if bytes.IndexByte(in, 0) >= 0 {
			return nil, c.reject(op, len(in), "nul_byte", errNUL)
		}
	}

	n, ok := c.rx.encodedLen(len(in))
	if !ok {
		return nil, c.allocFailed(op, len(in))
	}
	out, ok := c.alloc.alloc(n)
	if !ok {
		return nil, c.allocFailed(op, n)
	}

	scratch, ok := c.alloc.get(len(in))
	if !ok {
		c.alloc.free(out)
		return nil, c.allocFailed(op, len(in))
	}
	c.table.Forward(scratch, in)
	c.rx.encode(out, scratch)
	c.alloc.put(scratch)

	return c.own(op, out), nil
}

// Decode recovers the text an Encode call with the same configuration
// produced. Malformed input always yields ErrInvalidInput: decoding is strict,
// so every accepted value is the exact output of some Encode call.
func (c *Codec) Decode(in []byte) (*Buffer, error) {
	const op = "decode"
	if c.maxInput > 0 {
		// MaxInput bounds the text, so the encoded form of a maximal text is accepted.
		if lim, ok := c.rx.encodedLen(c.maxInput); ok && len(in) > lim {
			return nil, c.reject(op, len(in), "too_large", nil)
		}
	}
	n, ok := c.rx.decodedLen(len(in))
	if !ok {
		return nil, c.reject(op, len(in), "length", errLength)
	}
	out, ok := c.alloc.alloc(n)
	if !ok {
		return nil, c.allocFailed(op, n)
	}

	if err := c.rx.decode(out, in); err != nil {
		c.alloc.free(out)
		return nil, c.reject(op, len(in), "alphabet", err)
	}
	c.table.Inverse(out, out)

	if c.textOnly && bytes.IndexByte(out, 0) >= 0 {
		c.alloc.free(out)
		return nil, c.reject(op, len(in), "nul_byte", errNUL)
	}
	return c.own(op, out), nil
}

// EncodeString is Encode for strings; the intermediate Buffer is released.
func (c *Codec) EncodeString(s string) (string, error) {
	b, err := c.Encode([]byte(s))
	if err != nil {
		return "", err
	}
	out := b.String()
	_ = b.Release()
	return out, nil
}

// DecodeString is Decode for strings; the intermediate Buffer is released.
func (c *Codec) DecodeString(s string) (string, error) {
	b, err := c.Decode([]byte(s))
	if err != nil {
		return "", err
	}
	out := b.String()
	_ = b.Release()
	return out, nil
}

// Release returns b to this codec. nil is a no-op. A Buffer from another
// Codec is refused with ErrForeignBuffer and left untouched.
func (c *Codec) Release(b *Buffer) error {
	if b == nil {
		return nil
	}
	if b.c != c {
		c.violation("release", "foreign_buffer", b.op)
		return &Error{Op: "release", Kind: ErrForeignBuffer, Size: len(b.b)}
	}
	return b.Release()
}

func (c *Codec) own(op string, b []byte) *Buffer {
	return &Buffer{c: c, op: op, b: b}
}

func (c *Codec) reject(op string, size int, reason string, cause error) error {
	c.hooks.InputRejected(op, size, reason)
	c.log.Debug("input rejected", Fields{"op": op, "size": size, "reason": reason})
	return &Error{Op: op, Kind: ErrInvalidInput, Size: size, Err: cause}
}

func (c *Codec) allocFailed(op string, size int) error {
	c.hooks.AllocationFailed(op, size)
	c.log.Warn("allocation refused", Fields{"op": op, "size": size})
	return &Error{Op: op, Kind: ErrAllocation, Size: size}
}

func (c *Codec) violation(op, reason, origin string) {
	c.hooks.OwnershipViolation(op, reason)
	c.log.Warn("ownership violation", Fields{"op": op, "reason": reason, "origin": origin})
}
