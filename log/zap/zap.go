package zap

import (
	"github.com/unkn0wn-root/revtext"
	"go.uber.org/zap"
)

var _ revtext.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New names the logger "revtext" so codec events are easy to filter.
func New(l *zap.Logger) ZapLogger { return ZapLogger{L: l.Named("revtext")} }

func (z ZapLogger) Debug(msg string, f revtext.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f revtext.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f revtext.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f revtext.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f revtext.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
