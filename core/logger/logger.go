package logger

import (
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger captures shell events.
type Logger struct {
	z *zap.Logger
}

// NewJSONLinesRecorder creates a Logger that writes events at or above level
// to w as newline delimited JSON objects.
func NewJSONLinesRecorder(w io.Writer, level zapcore.Level) *Logger {
	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "event",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)

	return &Logger{z: zap.New(core)}
}

// NewNopRecorder creates a Logger that discards everything.
func NewNopRecorder() *Logger {
	return &Logger{z: zap.NewNop()}
}

// ParseLevel converts a configured level name to a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	var lvl zapcore.Level
	err := lvl.UnmarshalText([]byte(name))
	return lvl, err
}

// Sync flushes any buffered events.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

// NewSession creates a logger with a fresh session ID attached.
func (l *Logger) NewSession() *SessionLogger {
	id := uuid.NewString()
	return &SessionLogger{
		z:         l.z.With(zap.String("session_id", id)),
		sessionID: id,
	}
}

// Sessionless creates a logger with no session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{z: l.z}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	z         *zap.Logger
	sessionID string
}

// SessionID returns the ID attached to every event, empty for sessionless
// loggers.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record writes a single event.
func (l *SessionLogger) Record(event Event) {
	if ce := l.z.Check(event.Level(), event.Type()); ce != nil {
		ce.Write(event.Fields()...)
	}
}
