// Command librevtext builds the C shared library:
//
//	go build -buildmode=c-shared -o libcoding.so ./cmd/librevtext
//
// It exports
//
//	char* encode_string(const char* input);
//	char* decode_string(const char* input);
//	void  free_string(char* str);
//
// The results are declared char* rather than const char*: cgo exports cannot
// carry const on a return type, and free_string takes the same pointer back.
// Callers built against a const char* prototype link unchanged.
//
// Inputs are NUL-terminated. An input longer than the codec accepts yields NULL
// without being copied. Results are malloc'd, NUL-terminated and must be
// passed to free_string exactly once. On failure (invalid input, allocation
// failure) the result is NULL and nothing needs freeing. free_string(NULL) is
// a no-op; freeing any other pointer not returned by this library is refused.
//
// The codec key and alphabet come from REVTEXT_KEY and REVTEXT_ALPHABET at
// load time; both default to the library defaults (empty key, base64url).
package main

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"errors"
	"os"
	"unsafe"

	"github.com/unkn0wn-root/revtext"
	"github.com/unkn0wn-root/revtext/cabi"
)

var errNoMem = errors.New("malloc returned NULL")

type cAllocator struct{}

func (cAllocator) Alloc(n int) (unsafe.Pointer, error) {
	p := C.malloc(C.size_t(n))
	if p == nil {
		return nil, errNoMem
	}
	return p, nil
}

func (cAllocator) Free(p unsafe.Pointer) { C.free(p) }

var boundary = mustBoundary()

func mustBoundary() *cabi.Boundary {
	a, err := revtext.ParseAlphabet(os.Getenv("REVTEXT_ALPHABET"))
	if err != nil {
		panic(err)
	}
	b, err := cabi.New(revtext.Options{Key: []byte(os.Getenv("REVTEXT_KEY")), Alphabet: a}, cAllocator{})
	if err != nil {
		panic(err)
	}
	return b
}

// goBytes copies a C string, refusing lengths past the boundary limit before
// the C int conversion.
func goBytes(s *C.char) ([]byte, bool) {
	n := C.strlen(s)
	if n > C.size_t(boundary.MaxLen()) {
		return nil, false
	}
	return C.GoBytes(unsafe.Pointer(s), C.int(n)), true
}

//export encode_string
func encode_string(input *C.char) *C.char {
	if input == nil {
		return nil
	}
	in, ok := goBytes(input)
	if !ok {
		return nil
	}
	p, err := boundary.Encode(in)
	if err != nil {
		return nil
	}
	return (*C.char)(p)
}

//export decode_string
func decode_string(input *C.char) *C.char {
	if input == nil {
		return nil
	}
	in, ok := goBytes(input)
	if !ok {
		return nil
	}
	p, err := boundary.Decode(in)
	if err != nil {
		return nil
	}
	return (*C.char)(p)
}

//export free_string
func free_string(str *C.char) {
	_ = boundary.Free(unsafe.Pointer(str))
}

func main() {}
