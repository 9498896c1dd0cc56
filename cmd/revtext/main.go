// Command revtext encodes and decodes text from the shell.
//
//	revtext [-config path] roundtrip [text]
//	revtext [-config path] encode [text]      (stdin when text is omitted)
//	revtext [-config path] decode [text]
//	revtext [-config path] write [-o path]    (prompts for one line)
//	revtext [-config path] put <key> [text]
//	revtext [-config path] get <key>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/revtext"
	zaplog "github.com/unkn0wn-root/revtext/log/zap"
)

const usage = `usage: revtext [-config path] <command> [args]

commands:
  roundtrip [text]   encode then decode (default "Hello, world!")
  encode [text]      print the encoded form of text or stdin
  decode [text]      print the decoded form of text or stdin
  write [-o path]    read one line, encode it, write it to path
  put <key> [text]   encode and store text in the configured store
  get <key>          load and decode a stored value
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type app struct {
	cfg    config
	codec  *revtext.Codec
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("revtext", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	cfgPath := fs.String("config", "", "path to TOML config")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "revtext: %v\n", err)
		return 1
	}
	logger := newLogger(cfg, stderr)
	defer func() { _ = logger.Sync() }()

	opts := cfg.Codec
	opts.Logger = zaplog.New(logger)
	c, err := revtext.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "revtext: %v\n", err)
		return 1
	}

	a := &app{cfg: cfg, codec: c, log: logger, stdin: stdin, stdout: stdout, stderr: stderr}
	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "roundtrip":
		err = a.roundtrip(cmdArgs)
	case "encode":
		err = a.transform(cmdArgs, c.Encode)
	case "decode":
		err = a.transform(cmdArgs, c.Decode)
	case "write":
		err = a.write(cmdArgs)
	case "put":
		err = a.put(ctx, cmdArgs)
	case "get":
		err = a.get(ctx, cmdArgs)
	default:
		fmt.Fprintf(stderr, "revtext: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	if err != nil {
		logger.Debug("command failed", zap.String("cmd", cmd), zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(cfg config, w io.Writer) *zap.Logger {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg.LogFormat == "json" {
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		enc = zapcore.NewConsoleEncoder(ec)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), cfg.LogLevel))
}
