package cipher

import (
	"bytes"
	"testing"
)

func TestTableIsPermutation(t *testing.T) {
	for _, key := range [][]byte{nil, []byte("k"), []byte("another key")} {
		tb := New(key)
		var seen [256]bool
		for _, b := range tb.fwd {
			if seen[b] {
				t.Fatalf("key %q: duplicate %d in forward table", key, b)
			}
			seen[b] = true
		}
		for i := 0; i < 256; i++ {
			if tb.inv[tb.fwd[i]] != byte(i) {
				t.Fatalf("key %q: inv[fwd[%d]] != %d", key, i, i)
			}
		}
	}
}

func TestForwardInverse(t *testing.T) {
	tb := New([]byte("secret"))
	src := make([]byte, 1024)
	for i := range src {
		src[i] = byte(i * 7)
	}
	enc := make([]byte, len(src))
	tb.Forward(enc, src)
	if bytes.Equal(enc, src) {
		t.Fatalf("forward produced identity output")
	}
	dec := make([]byte, len(enc))
	tb.Inverse(dec, enc)
	if !bytes.Equal(dec, src) {
		t.Fatalf("inverse mismatch")
	}
}

func TestForwardInPlace(t *testing.T) {
	tb := New(nil)
	src := []byte("in place")
	buf := append([]byte(nil), src...)
	tb.Forward(buf, buf)
	tb.Inverse(buf, buf)
	if !bytes.Equal(buf, src) {
		t.Fatalf("in-place round trip: got %q", buf)
	}
}

func TestKeysProduceDifferentTables(t *testing.T) {
	a, b := New([]byte("a")), New([]byte("b"))
	if a.Seed() == b.Seed() {
		t.Fatalf("seeds collide")
	}
	if a.fwd == b.fwd {
		t.Fatalf("tables collide")
	}
	if New([]byte("a")).fwd != a.fwd {
		t.Fatalf("table not deterministic")
	}
}

func TestFingerprintBoundaries(t *testing.T) {
	if Fingerprint([]byte("ab"), []byte("c")) == Fingerprint([]byte("a"), []byte("bc")) {
		t.Fatalf("fingerprint ignores part boundaries")
	}
	if Fingerprint([]byte("x")) != Fingerprint([]byte("x")) {
		t.Fatalf("fingerprint not deterministic")
	}
}
