package revtext

import (
	"bytes"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Alphabet selects the radix stage that turns permuted bytes into text.
// Every alphabet emits printable ASCII only, so encoded values never hold
// 0x00, CR or LF.
type Alphabet uint8

const (
	// Base64URL is RFC 4648 URL-safe base64 without padding. len = (8n+5)/6.
	Base64URL Alphabet = iota + 1
	// Hex is lowercase base16. len = 2n.
	Hex
	// Base32 is RFC 4648 standard base32 without padding. len = (8n+4)/5.
	Base32
)

func (a Alphabet) String() string {
	switch a {
	case Base64URL:
		return "base64url"
	case Hex:
		return "hex"
	case Base32:
		return "base32"
	default:
		return fmt.Sprintf("alphabet(%d)", uint8(a))
	}
}

// ParseAlphabet accepts the names returned by Alphabet.String.
func ParseAlphabet(s string) (Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "base64url", "base64":
		return Base64URL, nil
	case "hex", "base16":
		return Hex, nil
	case "base32":
		return Base32, nil
	}
	return 0, fmt.Errorf("revtext: unknown alphabet %q", s)
}

var (
	errLength    = errors.New("length impossible for alphabet")
	errLineBreak = errors.New("line break in encoded value")
	errUpperHex  = errors.New("uppercase hex digit")
	errTailBits  = errors.New("non-canonical trailing bits")
)

// radix is the text stage. Lengths report ok=false on overflow or, for
// decodedLen, on a length no encoder output can have.
type radix interface {
	encodedLen(n int) (int, bool)
	decodedLen(n int) (int, bool)
	encode(dst, src []byte)
	decode(dst, src []byte) error
}

func radixFor(a Alphabet) (radix, error) {
	switch a {
	case Base64URL:
		return b64{}, nil
	case Hex:
		return b16{}, nil
	case Base32:
		return b32{}, nil
	}
	return nil, fmt.Errorf("revtext: unknown alphabet %d", uint8(a))
}

var (
	rawURL    = base64.RawURLEncoding.Strict()
	rawStd32  = base32.StdEncoding.WithPadding(base32.NoPadding)
	alpha32   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
	tailBits  = [8]uint{2: 2, 4: 4, 5: 1, 7: 3} // unused low bits of the last base32 symbol
	valid32   = [8]bool{0: true, 2: true, 4: true, 5: true, 7: true}
	maxBitLen = (math.MaxInt - 7) / 8
)

type b64 struct{}

func (b64) encodedLen(n int) (int, bool) {
	if n < 0 || n > maxBitLen {
		return 0, false
	}
	return (8*n + 5) / 6, true
}

func (b64) decodedLen(n int) (int, bool) {
	if n < 0 || n%4 == 1 {
		return 0, false
	}
	return n/4*3 + (n%4*6)/8, true
}

func (b64) encode(dst, src []byte) { rawURL.Encode(dst, src) }

func (b64) decode(dst, src []byte) error {
	if bytes.ContainsAny(src, "\r\n") {
		return errLineBreak
	}
	_, err := rawURL.Decode(dst, src)
	return err
}

type b16 struct{}

func (b16) encodedLen(n int) (int, bool) {
	if n < 0 || n > math.MaxInt/2 {
		return 0, false
	}
	return 2 * n, true
}

func (b16) decodedLen(n int) (int, bool) {
	if n < 0 || n%2 != 0 {
		return 0, false
	}
	return n / 2, true
}

func (b16) encode(dst, src []byte) { hex.Encode(dst, src) }

func (b16) decode(dst, src []byte) error {
	for i, c := range src {
		if c >= 'A' && c <= 'F' {
			return fmt.Errorf("%w at offset %d", errUpperHex, i)
		}
	}
	_, err := hex.Decode(dst, src)
	return err
}

type b32 struct{}

func (b32) encodedLen(n int) (int, bool) {
	if n < 0 || n > maxBitLen {
		return 0, false
	}
	return (8*n + 4) / 5, true
}

func (b32) decodedLen(n int) (int, bool) {
	if n < 0 || !valid32[n%8] {
		return 0, false
	}
	return n/8*5 + (n%8*5)/8, true
}

func (b32) encode(dst, src []byte) { rawStd32.Encode(dst, src) }

func (b32) decode(dst, src []byte) error {
	if bytes.ContainsAny(src, "\r\n") {
		return errLineBreak
	}
	if unused := tailBits[len(src)%8]; unused > 0 {
		v := strings.IndexByte(alpha32, src[len(src)-1])
		if v >= 0 && v&(1<<unused-1) != 0 {
			return errTailBits
		}
	}
	_, err := rawStd32.Decode(dst, src)
	return err
}
