package vos

import (
	"io"
	"os"
	"os/exec"

	"github.com/abiosoft/readline"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// HostOS passes every call through to the real operating system.
type HostOS struct{}

var _ VOS = (*HostOS)(nil)

// NewHostOS returns the VOS of the running process.
func NewHostOS() *HostOS {
	return &HostOS{}
}

// Hostname implements VNetwork.Hostname.
func (*HostOS) Hostname() (string, error) {
	return os.Hostname()
}

// UserHomeDir implements VEnv.UserHomeDir.
func (*HostOS) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// Unsetenv implements VEnv.Unsetenv.
func (*HostOS) Unsetenv(key string) error {
	return os.Unsetenv(key)
}

// Setenv implements VEnv.Setenv.
func (*HostOS) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

// LookupEnv implements VEnv.LookupEnv.
func (*HostOS) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Getenv implements VEnv.Getenv.
func (*HostOS) Getenv(key string) string {
	return os.Getenv(key)
}

// Environ implements VEnv.Environ.
func (*HostOS) Environ() []string {
	return os.Environ()
}

func (*HostOS) Stdin() io.ReadCloser {
	return os.Stdin
}

func (*HostOS) Stdout() io.WriteCloser {
	return os.Stdout
}

func (*HostOS) Stderr() io.WriteCloser {
	return os.Stderr
}

// Getwd implements VDir.Getwd.
func (*HostOS) Getwd() (string, error) {
	return os.Getwd()
}

// Chdir implements VDir.Chdir.
func (*HostOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

// GetPTY reports whether the shell is attached to a terminal and how wide it
// is, DefaultWidth if that can't be determined.
func (*HostOS) GetPTY() PTY {
	width := readline.GetScreenWidth()
	if width <= 0 {
		width = DefaultWidth
	}

	return PTY{
		Width: width,
		Term:  os.Getenv("TERM"),
		IsPTY: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// Pipe implements VProc.Pipe with an OS pipe so children can share it.
func (*HostOS) Pipe() (io.ReadCloser, io.WriteCloser, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, errors.Wrap(err, "pipe")
	}
	return r, w, nil
}

// StartProcess implements VProc.StartProcess.
func (*HostOS) StartProcess(name string, argv []string, attr *ProcAttr) (Process, error) {
	if attr == nil {
		attr = &ProcAttr{}
	}

	// The child gets duplicates of any *os.File it's handed so the parent's
	// copies are released as soon as Start returns.
	owned := ListCloser(attr.Owned)
	defer owned.Close()

	cmd := exec.Command(name)
	if len(argv) > 0 {
		cmd.Args = argv
	}
	cmd.Dir = attr.Dir
	cmd.Env = attr.Env
	if attr.Files != nil {
		cmd.Stdin = attr.Files.Stdin()
		cmd.Stdout = attr.Files.Stdout()
		cmd.Stderr = attr.Files.Stderr()
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &hostProcess{cmd: cmd}, nil
}

type hostProcess struct {
	cmd *exec.Cmd
}

func (p *hostProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *hostProcess) Wait() error {
	return p.cmd.Wait()
}
