// Package revtext implements a small reversible text codec with explicit
// ownership of its results.
//
// Components:
//   - Codec: Encode/Decode/Release. Deterministic for a given Options.Key and
//     Alphabet; Decode(Encode(x)) == x for every x the codec admits.
//   - Buffer: the owned result of Encode/Decode. Release returns it to the codec;
//     double release and foreign release are reported, not undefined.
//   - Typed[V]: structured values via a codec.Codec[V] payload serializer.
//
// Length convention:
//
//	Go API   - explicit length (the slice header). Any byte is admitted,
//	           including 0x00, unless Options.TextOnly is set.
//	TextOnly - NUL-terminated text. 0x00 is rejected on the way in and on the
//	           way out, so every value round-trips through a C string.
//
// Encoded values are printable ASCII and never contain 0x00, CR or LF.
// EncodedLen(n) is (8n+5)/6 for Base64URL, 2n for Hex and (8n+4)/5 for Base32.
//
// Transform:
//
//	out[i] = fwd[in[i] ^ pad(i)]    // keyed permutation + positional pad
//	text   = alphabet(out)          // radix re-encoding
//
// This is an obfuscating codec, not encryption: anyone with the key (or the
// default empty key) can decode.
package revtext
