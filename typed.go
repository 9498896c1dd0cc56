package revtext

import (
	"bytes"
	"fmt"

	"github.com/unkn0wn-root/revtext/codec"
)

// Typed carries structured values as encoded text: V is serialized by the
// payload codec, then transformed by the Codec.
//
// Binary payload codecs (CBOR, Msgpack, Protobuf) emit 0x00 freely, so pair
// them with a Codec that is not TextOnly.
type Typed[V any] struct {
	c       *Codec
	payload codec.Codec[V]
}

func NewTyped[V any](c *Codec, payload codec.Codec[V]) (*Typed[V], error) {
	if c == nil {
		return nil, fmt.Errorf("revtext: codec is required")
	}
	if payload == nil {
		return nil, fmt.Errorf("revtext: payload codec is required")
	}
	return &Typed[V]{c: c, payload: payload}, nil
}

// Encode serializes v and transforms the payload. The returned Buffer is
// owned by the caller.
func (t *Typed[V]) Encode(v V) (*Buffer, error) {
	raw, err := t.payload.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("revtext: payload encode: %w", err)
	}
	return t.c.Encode(raw)
}

// Decode reverses Encode. No Buffer outlives the call; the payload codec
// gets its own copy since some (Bytes, Msgpack) alias their input.
func (t *Typed[V]) Decode(text []byte) (V, error) {
	var zero V
	raw, err := t.c.Decode(text)
	if err != nil {
		return zero, err
	}
	payload := bytes.Clone(raw.Bytes())
	_ = raw.Release()

	v, err := t.payload.Decode(payload)
	if err != nil {
		return zero, fmt.Errorf("revtext: payload decode: %w", err)
	}
	return v, nil
}
