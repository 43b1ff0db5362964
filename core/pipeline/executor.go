package pipeline

import (
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/pkg/errors"
)

// SpawnError is returned when a stage's process could not be started.
type SpawnError struct {
	Stage int
	Name  string
	Err   error
}

func (e *SpawnError) Error() string {
	cause := e.Err
	var execErr *exec.Error
	if errors.As(cause, &execErr) {
		cause = execErr.Err
	}
	return fmt.Sprintf("%s: %v", e.Name, cause)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Executor starts the external stages of command lines on a virtual OS.
type Executor struct {
	virtOS vos.VOS
	log    *logger.SessionLogger

	reaper sync.WaitGroup
}

// NewExecutor creates an Executor, log may be nil.
func NewExecutor(virtOS vos.VOS, log *logger.SessionLogger) *Executor {
	if log == nil {
		log = logger.NewNopRecorder().Sessionless()
	}
	return &Executor{virtOS: virtOS, log: log}
}

// Begin starts a line with n external stages. Stages must then be passed to
// Spawn in order, followed by a call to Wait or Abort.
func (e *Executor) Begin(n int) *Run {
	return &Run{e: e, total: n}
}

// WaitReaped blocks until every intermediate stage started so far has exited.
func (e *Executor) WaitReaped() {
	e.reaper.Wait()
}

func (e *Executor) reap(stage *Stage) {
	e.reaper.Add(1)
	go func() {
		defer e.reaper.Done()
		_ = stage.Proc.Wait()
	}()
}

// Stage is a started process within a Run.
type Stage struct {
	Index   int
	Segment Segment
	Proc    vos.Process
}

// Run is a single line being executed. It owns the read end of the pipe
// between the most recently started stage and the next one.
type Run struct {
	e     *Executor
	total int

	stages  []*Stage
	pending io.ReadCloser
}

// Stages returns the stages started so far in order.
func (r *Run) Stages() []*Stage {
	return r.stages
}

// Spawn starts the next stage. The first stage reads the shell's stdin, the
// last writes to the shell's stdout, every other stage is connected to its
// neighbours with pipes.
//
// If Spawn fails the caller must Abort the run.
func (r *Run) Spawn(seg Segment) error {
	idx := len(r.stages)
	virtOS := r.e.virtOS

	files := &vos.VIOAdapter{
		IStdin:  virtOS.Stdin(),
		IStdout: virtOS.Stdout(),
		IStderr: virtOS.Stderr(),
	}
	var owned vos.ListCloser

	if r.pending != nil {
		files.IStdin = r.pending
		owned = append(owned, r.pending)
		r.pending = nil
	}

	var next io.ReadCloser
	if idx < r.total-1 {
		pr, pw, err := virtOS.Pipe()
		if err != nil {
			owned.Close()
			return &SpawnError{Stage: idx, Name: seg.Name, Err: err}
		}
		files.IStdout = pw
		owned = append(owned, pw)
		next = pr
	}

	proc, err := virtOS.StartProcess(seg.Name, seg.Argv(), &vos.ProcAttr{
		Files: files,
		Owned: owned,
	})
	if err != nil {
		if next != nil {
			next.Close()
		}
		r.e.log.Record(&logger.UnknownCommand{
			Command: seg.Argv(),
			Stage:   idx,
			Error:   err.Error(),
		})
		return &SpawnError{Stage: idx, Name: seg.Name, Err: err}
	}

	r.stages = append(r.stages, &Stage{Index: idx, Segment: seg, Proc: proc})
	r.pending = next
	r.e.log.Record(&logger.RunCommand{
		Command: seg.Argv(),
		Stage:   idx,
		Pid:     proc.Pid(),
	})
	return nil
}

// Wait blocks until the last started stage exits and returns its status.
// Earlier stages are reaped in the background.
func (r *Run) Wait() int {
	r.closePending()
	if len(r.stages) == 0 {
		return 0
	}

	last := r.stages[len(r.stages)-1]
	for _, stage := range r.stages[:len(r.stages)-1] {
		r.e.reap(stage)
	}

	status := vos.ExitStatus(last.Proc.Wait())
	r.e.log.Record(&logger.PipelineExit{
		Stages: len(r.stages),
		Status: status,
	})
	r.stages = nil
	return status
}

// Abort releases every stream the run still holds and reaps the stages that
// were started without waiting for them.
func (r *Run) Abort() {
	r.closePending()
	for _, stage := range r.stages {
		r.e.reap(stage)
	}
	r.stages = nil
}

func (r *Run) closePending() {
	if r.pending != nil {
		r.pending.Close()
		r.pending = nil
	}
}
