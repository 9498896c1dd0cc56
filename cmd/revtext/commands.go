package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/revtext"
)

var errNotFound = errors.New("not found")

// roundtrip mirrors the console sample: encode, print, decode, print, release.
func (a *app) roundtrip(args []string) error {
	text := "Hello, world!"
	if len(args) > 0 {
		text = strings.Join(args, " ")
	}

	enc, err := a.codec.Encode([]byte(text))
	if err != nil {
		return err
	}
	defer a.codec.Release(enc)
	fmt.Fprintf(a.stdout, "Encoded: %s\n", enc.Bytes())

	dec, err := a.codec.Decode(enc.Bytes())
	if err != nil {
		return err
	}
	defer a.codec.Release(dec)
	fmt.Fprintf(a.stdout, "Decoded: %s\n", dec.Bytes())
	return nil
}

func (a *app) transform(args []string, fn func([]byte) (*revtext.Buffer, error)) error {
	in, err := a.input(args)
	if err != nil {
		return err
	}
	out, err := fn(in)
	if err != nil {
		return err
	}
	defer a.codec.Release(out)
	_, err = fmt.Fprintf(a.stdout, "%s\n", out.Bytes())
	return err
}

// write mirrors the file sample: prompt for a line, encode it, persist it.
// Nothing is written when encoding fails.
func (a *app) write(args []string) error {
	fs := flag.NewFlagSet("write", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	path := fs.String("o", "./output/output.txt", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprint(a.stdout, "Enter text: ")
	line, err := readLine(a.stdin)
	if err != nil {
		return err
	}

	enc, err := a.codec.Encode([]byte(line))
	if err != nil {
		return fmt.Errorf("encode failed, nothing written: %w", err)
	}
	defer a.codec.Release(enc)

	if err := writeFile(*path, enc.Bytes()); err != nil {
		return fmt.Errorf("could not open file for writing: %w", err)
	}
	fmt.Fprintln(a.stdout, "File written successfully!")
	a.log.Info("encoded text written")
	return nil
}

func writeFile(path string, encoded []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data := make([]byte, 0, len(encoded)+1)
	data = append(append(data, encoded...), '\n')
	return os.WriteFile(path, data, 0o644)
}

func (a *app) put(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("put: key required")
	}
	key := args[0]
	text, err := a.input(args[1:])
	if err != nil {
		return err
	}

	v, err := a.openVault(ctx)
	if err != nil {
		return err
	}
	defer v.Close(ctx)

	if err := v.Put(ctx, key, text, 0); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "stored %s\n", key)
	return nil
}

func (a *app) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("get: exactly one key required")
	}
	v, err := a.openVault(ctx)
	if err != nil {
		return err
	}
	defer v.Close(ctx)

	buf, ok, err := v.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("get %q: %w", args[0], errNotFound)
	}
	defer a.codec.Release(buf)
	_, err = fmt.Fprintf(a.stdout, "%s\n", buf.Bytes())
	return err
}

// input is the joined args, or stdin with one trailing line break removed.
func (a *app) input(args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(strings.Join(args, " ")), nil
	}
	b, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, err
	}
	return trimEOL(b), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return string(trimEOL([]byte(line))), nil
}

func trimEOL(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
		if n := len(b); n > 0 && b[n-1] == '\r' {
			b = b[:n-1]
		}
	}
	return b
}
