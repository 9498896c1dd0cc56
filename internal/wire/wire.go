// Package wire frames encoded text for storage. The frame records which codec
// configuration produced the payload so readers can reject foreign entries
// before decoding.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	version  byte = 1
	kindText byte = 1

	headerLen = 4 + 1 + 1 + 1 + 8 + 4
)

var (
	ErrCorrupt = errors.New("revtext: corrupt entry")
	magic4     = [...]byte{'R', 'V', 'T', 'X'}
)

// Envelope is a decoded frame. Payload aliases the input buffer.
type Envelope struct {
	Alphabet    byte
	Fingerprint uint64
	Payload     []byte
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Text: magic(4) | ver(1) | kind(1=text) | alphabet(1) | fingerprint(u64 be) | plen(u32 be) | payload(plen)
func EncodeText(alphabet byte, fingerprint uint64, payload []byte) ([]byte, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("revtext: payload too large for frame: %d", len(payload))
	}

	var buf bytes.Buffer
	buf.Grow(headerLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindText)
	buf.WriteByte(alphabet)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], fingerprint)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes(), nil
}

func DecodeText(b []byte) (Envelope, error) {
	if len(b) < headerLen || !hasMagic(b) || b[4] != version || b[5] != kindText {
		return Envelope{}, ErrCorrupt
	}

	off := 6
	env := Envelope{Alphabet: b[off]}
	off++

	env.Fingerprint = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	plen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if plen < 0 || plen != len(b)-off { // exact: no truncation, no trailing bytes
		return Envelope{}, ErrCorrupt
	}

	env.Payload = b[off : off+plen]
	return env, nil
}
