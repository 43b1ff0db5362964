package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Event types, used as the "event" key of every log line.
const (
	TypeSessionStart   = "session_start"
	TypeRunCommand     = "run_command"
	TypeUnknownCommand = "unknown_command"
	TypePipelineExit   = "pipeline_exit"
	TypeBuiltin        = "builtin"
	TypeInputError     = "input_error"
)

// Event is a single loggable occurrence.
type Event interface {
	Type() string
	Level() zapcore.Level
	Fields() []zap.Field
}

// SessionStart is logged once when the shell starts.
type SessionStart struct {
	User        string
	Host        string
	Dir         string
	Interactive bool
}

func (*SessionStart) Type() string { return TypeSessionStart }
func (*SessionStart) Level() zapcore.Level { return zapcore.InfoLevel }
func (e *SessionStart) Fields() []zap.Field {
	return []zap.Field{
		zap.String("user", e.User),
		zap.String("host", e.Host),
		zap.String("dir", e.Dir),
		zap.Bool("interactive", e.Interactive),
	}
}

// RunCommand is logged for every stage that started a process.
type RunCommand struct {
	Command []string
	Stage   int
	Pid     int
}

func (*RunCommand) Type() string         { return TypeRunCommand }
func (*RunCommand) Level() zapcore.Level { return zapcore.InfoLevel }
func (e *RunCommand) Fields() []zap.Field {
	return []zap.Field{
		zap.Strings("command", e.Command),
		zap.Int("stage", e.Stage),
		zap.Int("pid", e.Pid),
	}
}

// UnknownCommand is logged when a stage could not be started.
type UnknownCommand struct {
	Command []string
	Stage   int
	Error   string
}

func (*UnknownCommand) Type() string         { return TypeUnknownCommand }
func (*UnknownCommand) Level() zapcore.Level { return zapcore.WarnLevel }
func (e *UnknownCommand) Fields() []zap.Field {
	return []zap.Field{
		zap.Strings("command", e.Command),
		zap.Int("stage", e.Stage),
		zap.String("error", e.Error),
	}
}

// PipelineExit is logged once the last stage of a line exits.
type PipelineExit struct {
	Stages int
	Status int
}

func (*PipelineExit) Type() string         { return TypePipelineExit }
func (*PipelineExit) Level() zapcore.Level { return zapcore.InfoLevel }
func (e *PipelineExit) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("stages", e.Stages),
		zap.Int("status", e.Status),
	}
}

// Builtin is logged after a builtin runs.
type Builtin struct {
	Command []string
	Status  int
}

func (*Builtin) Type() string         { return TypeBuiltin }
func (*Builtin) Level() zapcore.Level { return zapcore.DebugLevel }
func (e *Builtin) Fields() []zap.Field {
	return []zap.Field{
		zap.Strings("command", e.Command),
		zap.Int("status", e.Status),
	}
}

// InputError is logged when reading a line fails.
type InputError struct {
	Error string
}

func (*InputError) Type() string         { return TypeInputError }
func (*InputError) Level() zapcore.Level { return zapcore.ErrorLevel }
func (e *InputError) Fields() []zap.Field {
	return []zap.Field{zap.String("error", e.Error)}
}
