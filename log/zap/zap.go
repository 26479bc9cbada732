// Package zap adapts a *zap.Logger to packers.Logger.
package zap

import (
	"github.com/unkn0wn-root/packers"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ packers.Logger = ZapLogger{}

// ZapLogger forwards to L. A nil L discards everything.
type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Debug(msg string, f packers.Fields) { z.log(zapcore.DebugLevel, msg, f) }
func (z ZapLogger) Info(msg string, f packers.Fields)  { z.log(zapcore.InfoLevel, msg, f) }
func (z ZapLogger) Warn(msg string, f packers.Fields)  { z.log(zapcore.WarnLevel, msg, f) }
func (z ZapLogger) Error(msg string, f packers.Fields) { z.log(zapcore.ErrorLevel, msg, f) }

func (z ZapLogger) log(level zapcore.Level, msg string, f packers.Fields) {
	if z.L == nil {
		return
	}
	if ce := z.L.Check(level, msg); ce != nil {
		ce.Write(zf(f)...)
	}
}

func zf(f packers.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
