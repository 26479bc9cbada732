// Package logrus adapts logrus to packers.Logger. Both *logrus.Logger and
// *logrus.Entry satisfy logrus.FieldLogger.
package logrus

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/packers"
)

var _ packers.Logger = LogrusLogger{}

// LogrusLogger forwards to E. A nil E discards everything.
type LogrusLogger struct{ E logrus.FieldLogger }

// New tags every line with component=packers.
func New(l logrus.FieldLogger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "packers")}
}

func (l LogrusLogger) Debug(msg string, f packers.Fields) { l.entry(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f packers.Fields)  { l.entry(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f packers.Fields)  { l.entry(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f packers.Fields) { l.entry(f).Error(msg) }

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}()

func (l LogrusLogger) entry(f packers.Fields) *logrus.Entry {
	if l.E == nil {
		return logrus.NewEntry(discard)
	}
	return l.E.WithFields(logrus.Fields(f))
}
