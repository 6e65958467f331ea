// Package klog provides the leveled, structured logger used throughout the
// kiosk client. It exists so that every package logs through the same
// keyed-field shape (channel, addr, method, id, err, ...) rather than ad hoc
// fmt.Printf calls, the same way a Kafka client logs broker and connection
// lifecycle events.
package klog

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level mirrors the small, ordered level set the rest of the package uses
// to decide what to log at connect/reconnect/parse-failure points.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the keyed, leveled logging surface every component depends on.
// Log takes a level, message and alternating key/value pairs;
// Debug/Info/Warn/Error are thin conveniences over it.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger writing to w at the given minimum level. Passing a
// nil w defaults to os.Stderr.
func New(w io.Writer, level Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	z := zerolog.New(w).With().Timestamp().Logger().Level(toZerolog(level))
	return Logger{z: z}
}

// Nop returns a Logger that discards everything, for callers that don't
// want any log output (tests, embedders with their own logging).
func Nop() Logger {
	return Logger{z: zerolog.Nop()}
}

func toZerolog(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Log writes msg at level with the given alternating key/value pairs.
// A key that is not a string, or a keyvals slice of odd length, is
// rendered best-effort rather than dropped.
func (l Logger) Log(level Level, msg string, keyvals ...any) {
	var ev *zerolog.Event
	switch level {
	case LevelDebug:
		ev = l.z.Debug()
	case LevelWarn:
		ev = l.z.Warn()
	case LevelError:
		ev = l.z.Error()
	default:
		ev = l.z.Info()
	}
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		ev = ev.Interface(key, keyvals[i+1])
	}
	if len(keyvals)%2 == 1 {
		ev = ev.Interface("extra", keyvals[len(keyvals)-1])
	}
	ev.Msg(msg)
}

func (l Logger) Debug(msg string, keyvals ...any) { l.Log(LevelDebug, msg, keyvals...) }
func (l Logger) Info(msg string, keyvals ...any)  { l.Log(LevelInfo, msg, keyvals...) }
func (l Logger) Warn(msg string, keyvals ...any)  { l.Log(LevelWarn, msg, keyvals...) }
func (l Logger) Error(msg string, keyvals ...any) { l.Log(LevelError, msg, keyvals...) }
