package cabi

import (
	"math"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/revtext"
)

// cString reads a NUL-terminated block the way a C caller would.
func cString(p unsafe.Pointer) string {
	var n int
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}

func newBoundary(t *testing.T, heap *HeapAllocator) *Boundary {
	t.Helper()
	b, err := New(revtext.Options{}, heap)
	require.NoError(t, err)
	return b
}

func TestHelloWorldAcrossBoundary(t *testing.T) {
	heap := &HeapAllocator{}
	b := newBoundary(t, heap)

	enc, err := b.Encode([]byte("Hello, world!"))
	require.NoError(t, err)
	encoded := cString(enc)
	assert.NotEqual(t, "Hello, world!", encoded)
	assert.Len(t, encoded, b.Codec().EncodedLen(len("Hello, world!")))

	view, ok := b.Bytes(enc)
	require.True(t, ok)
	assert.Equal(t, encoded, string(view))

	dec, err := b.Decode([]byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", cString(dec))
	assert.Equal(t, 2, b.Live())

	require.NoError(t, b.Free(enc))
	require.NoError(t, b.Free(dec))
	assert.Zero(t, b.Live())
	assert.Zero(t, heap.Outstanding())
	assert.Zero(t, b.Codec().Stats().Live)
}

func TestEmptyStringAcrossBoundary(t *testing.T) {
	b := newBoundary(t, &HeapAllocator{})
	enc, err := b.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "", cString(enc))

	dec, err := b.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, "", cString(dec))

	require.NoError(t, b.Free(enc))
	require.NoError(t, b.Free(dec))
}

func TestDoubleAndForeignFree(t *testing.T) {
	heap := &HeapAllocator{}
	b := newBoundary(t, heap)

	p, err := b.Encode([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, b.Free(p))
	assert.ErrorIs(t, b.Free(p), revtext.ErrForeignBuffer)
	assert.ErrorIs(t, b.Free(p), revtext.ErrOwnership)

	var local [4]byte
	assert.ErrorIs(t, b.Free(unsafe.Pointer(&local[0])), revtext.ErrForeignBuffer)
	assert.NoError(t, b.Free(nil))

	_, ok := b.Bytes(p)
	assert.False(t, ok)
}

func TestBoundaryRejectsNUL(t *testing.T) {
	b := newBoundary(t, &HeapAllocator{})
	_, err := b.Encode([]byte("a\x00b"))
	assert.ErrorIs(t, err, revtext.ErrInvalidInput)

	bin := revtext.MustNew(revtext.Options{})
	enc, err := bin.EncodeString("a\x00b")
	require.NoError(t, err)
	_, err = b.Decode([]byte(enc))
	assert.ErrorIs(t, err, revtext.ErrInvalidInput)
	assert.Zero(t, b.Live())
}

func TestBoundaryAllocationFailure(t *testing.T) {
	heap := &HeapAllocator{Max: 8}
	b := newBoundary(t, heap)

	_, err := b.Encode([]byte("longer than eight"))
	assert.ErrorIs(t, err, revtext.ErrAllocation)
	assert.Zero(t, b.Live())
	assert.Zero(t, b.Codec().Stats().Live)

	p, err := b.Encode([]byte("ab"))
	require.NoError(t, err)
	require.NoError(t, b.Free(p))
}

func TestMalformedDecodeAcrossBoundary(t *testing.T) {
	b := newBoundary(t, &HeapAllocator{})
	for _, in := range []string{"A", "a+b/", "ab\n"} {
		p, err := b.Decode([]byte(in))
		assert.Nil(t, p)
		assert.ErrorIs(t, err, revtext.ErrInvalidInput, in)
	}
}

func TestNewRequiresAllocator(t *testing.T) {
	_, err := New(revtext.Options{}, nil)
	assert.Error(t, err)
}

func TestMaxLenBoundsCInput(t *testing.T) {
	b, err := New(revtext.Options{MaxInput: 8}, &HeapAllocator{})
	require.NoError(t, err)
	assert.Equal(t, b.Codec().EncodedLen(8), b.MaxLen())

	enc, err := b.Encode([]byte("12345678"))
	require.NoError(t, err)
	encoded := cString(enc)
	assert.Len(t, encoded, b.MaxLen(), "a maximal text encodes to exactly MaxLen")

	dec, err := b.Decode([]byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, "12345678", cString(dec))
	require.NoError(t, b.Free(enc))
	require.NoError(t, b.Free(dec))

	_, err = b.Decode([]byte(strings.Repeat("A", b.MaxLen()+1)))
	assert.ErrorIs(t, err, revtext.ErrInvalidInput)

	def := newBoundary(t, &HeapAllocator{})
	assert.Equal(t, def.Codec().EncodedLen(def.Codec().MaxInput()), def.MaxLen())

	unlimited, err := New(revtext.Options{MaxInput: -1}, &HeapAllocator{})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, unlimited.MaxLen())
}
