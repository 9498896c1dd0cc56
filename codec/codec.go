// Package codec holds payload serializers for revtext.Typed.
//
// A payload codec turns a Go value into bytes; revtext then turns those bytes
// into encoded text. Implementations must be deterministic if callers rely on
// equal values producing equal text.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
