package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/revtext"
)

var _ revtext.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

func New(l *logrus.Logger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "revtext")}
}

func (l LogrusLogger) Debug(msg string, f revtext.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f revtext.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f revtext.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f revtext.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
