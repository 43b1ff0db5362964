package commands

import (
	"fmt"
	"io"

	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/dirstack"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/pipeline"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/pkg/errors"
)

const (
	// ShellName prefixes errors the shell reports itself.
	ShellName = "pipesh"

	// StatusNotFound is the status of a line whose program couldn't be found.
	StatusNotFound = 127
	// StatusCannotExecute is the status of a line whose program couldn't be
	// started for any other reason.
	StatusCannotExecute = 126

	clearScreen = "\033[H\033[2J"
)

type Shell struct {
	VirtualOS vos.VOS
	Config    *config.Configuration
	Stack     *dirstack.Stack

	log      *logger.SessionLogger
	executor *pipeline.Executor
	colors   *ColorPrinter

	lastRet int

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates a shell whose directory stack starts at the OS's current
// working directory. A nil cfg uses the defaults without persistence and a
// nil log discards events.
func NewShell(virtualOS vos.VOS, cfg *config.Configuration, log *logger.SessionLogger) (*Shell, error) {
	if cfg == nil {
		cfg = config.Ephemeral()
	}
	if log == nil {
		log = logger.NewNopRecorder().Sessionless()
	}

	wd, err := virtualOS.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "couldn't determine the working directory")
	}

	return &Shell{
		VirtualOS: virtualOS,
		Config:    cfg,
		Stack:     dirstack.New(wd),
		log:       log,
		executor:  pipeline.NewExecutor(virtualOS, log),
		colors:    NewColorPrinter(cfg.Color, virtualOS),
	}, nil
}

// LastStatus is the exit status of the most recent line.
func (s *Shell) LastStatus() int {
	return s.lastRet
}

// Wait blocks until every process the shell started has been reaped.
func (s *Shell) Wait() {
	s.executor.WaitReaped()
}

func (s *Shell) logStart(interactive bool) {
	host, _ := s.VirtualOS.Hostname()
	s.log.Record(&logger.SessionStart{
		User:        s.VirtualOS.Getenv("USER"),
		Host:        host,
		Dir:         s.Stack.Top(),
		Interactive: interactive,
	})
}

// RunOnce runs a single line non-interactively and returns its status.
func (s *Shell) RunOnce(line string) int {
	s.logStart(false)
	s.RunCommand(line)
	return s.lastRet
}

// Run reads and executes lines until exit or the end of input, returning the
// status of the last line.
func (s *Shell) Run(reader LineReader) int {
	s.logStart(true)

	if s.Config.ClearScreen && s.VirtualOS.GetPTY().IsPTY {
		io.WriteString(s.VirtualOS.Stdout(), clearScreen)
	}

	for !s.Quit {
		reader.SetPrompt(s.prompt())
		line, err := reader.Readline()

		switch {
		case err == io.EOF:
			return s.lastRet // Input closed, quit.

		case err == ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %v\n", ShellName, err)
			s.log.Record(&logger.InputError{Error: err.Error()})
			continue

		default:
			s.RunCommand(line)
		}
	}
	return s.lastRet
}

// RunCommand executes one line. Builtins run in-process at their position in
// the line, every other segment is started as a process chained to the
// previous and next external segments.
func (s *Shell) RunCommand(line string) {
	segments := pipeline.Parse(line)

	external := 0
	lastIsBuiltin := false
	for _, seg := range segments {
		if seg.Empty() {
			continue
		}
		lastIsBuiltin = LookupBuiltin(seg.Name) != BuiltinNone
		if !lastIsBuiltin {
			external++
		}
	}

	run := s.executor.Begin(external)
	for _, seg := range segments {
		if seg.Empty() {
			continue
		}

		if b := LookupBuiltin(seg.Name); b != BuiltinNone {
			s.lastRet = s.runBuiltin(b, seg.Argv())
			if s.Quit {
				run.Abort()
				return
			}
			continue
		}

		if err := run.Spawn(seg); err != nil {
			fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %v\n", ShellName, err)
			s.lastRet = StatusCannotExecute
			if errors.Is(err, vos.ErrNotFound) {
				s.lastRet = StatusNotFound
			}
			run.Abort()
			return
		}
	}

	status := run.Wait()
	if external > 0 && !lastIsBuiltin {
		s.lastRet = status
	}
}
