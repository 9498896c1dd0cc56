package revtext

import (
	"fmt"

	"github.com/unkn0wn-root/revtext/internal/cipher"
)

// Options tune a Codec. The zero value is a valid configuration.
type Options struct {
	// Key selects the substitution table and positional pad. It is part of the
	// contract: values encoded under one key only decode under the same key.
	Key []byte
	// Alphabet of the text stage; 0 => Base64URL.
	Alphabet Alphabet
	// TextOnly applies the NUL-terminator convention: 0x00 is rejected in
	// Encode input and in Decode output. Use it for C-string boundaries.
	TextOnly bool

	MaxInput int    // text bytes; 0 => 16 MiB, <0 => unlimited. Decode accepts EncodedLen(MaxInput).
	MaxAlloc int    // bytes per result buffer; 0 => 64 MiB, <0 => unlimited
	Logger   Logger // if nil, NopLogger is used
	Hooks    Hooks  // if nil, NopHooks is used
}

// Codec is a deterministic, invertible text transform. It holds no state that
// changes between calls apart from allocation counters and is safe for
// concurrent use.
type Codec struct {
	alphabet Alphabet
	rx       radix
	table    *cipher.Table
	fp       uint64
	textOnly bool
	maxInput int

	alloc *allocator
	log   Logger
	hooks Hooks
}

func New(opts Options) (*Codec, error) {
	a := coalesce(opts.Alphabet, Base64URL)
	rx, err := radixFor(a)
	if err != nil {
		return nil, err
	}

	c := &Codec{
		alphabet: a,
		rx:       rx,
		table:    cipher.New(opts.Key),
		fp:       cipher.Fingerprint([]byte(a.String()), opts.Key),
		textOnly: opts.TextOnly,
		maxInput: limit(opts.MaxInput, defaultMaxInput),
		alloc:    &allocator{max: limit(opts.MaxAlloc, defaultMaxAlloc)},
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	return c, nil
}

// MustNew is like New but panics on error.
// Handy for package-level variables in tests/examples.
func MustNew(opts Options) *Codec {
	c, err := New(opts)
	if err != nil {
		panic(fmt.Sprintf("revtext: %v", err))
	}
	return c
}

func (c *Codec) Alphabet() Alphabet { return c.alphabet }
func (c *Codec) TextOnly() bool     { return c.textOnly }

// MaxInput is the longest text Encode accepts, or 0 when unlimited.
func (c *Codec) MaxInput() int { return c.maxInput }

// Fingerprint identifies the (alphabet, key) pair. Two codecs with equal
// fingerprints produce identical encodings.
func (c *Codec) Fingerprint() uint64 { return c.fp }

func (c *Codec) Stats() Stats { return c.alloc.stats() }

// EncodedLen is the exact length Encode produces for n input bytes,
// or -1 if n is negative or too large to represent.
func (c *Codec) EncodedLen(n int) int {
	m, ok := c.rx.encodedLen(n)
	if !ok {
		return -1
	}
	return m
}

// DecodedLen is the length Decode produces for an n-byte encoded value,
// or -1 if no encoded value has length n.
func (c *Codec) DecodedLen(n int) int {
	m, ok := c.rx.decodedLen(n)
	if !ok {
		return -1
	}
	return m
}
