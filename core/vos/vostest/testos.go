// Package vostest provides a deterministic in-memory OS for testing the shell.
package vostest

import (
	"io"
	"io/fs"
	"os/exec"
	"path"
	"sort"
	"sync"
	"syscall"

	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/spf13/afero"
)

const (
	// Home is the home directory of the fake user.
	Home = "/home/tester"
	// User is the fake user's name.
	User = "tester"
	// Host is the fake hostname.
	Host = "testhost"
)

// ProcessFunc is a fake program, it returns the exit status.
type ProcessFunc func(p *Proc) int

// Proc is the view a fake program has of itself.
type Proc struct {
	Args   []string
	Dir    string
	Env    *vos.MapEnv
	FS     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// TestOS is a vos.VOS with an in-memory filesystem and programs implemented
// as Go functions running in goroutines.
type TestOS struct {
	*vos.MapEnv
	vos.VIO

	FS  afero.Fs
	PTY vos.PTY

	mu       sync.Mutex
	dir      string
	nextPID  int
	programs map[string]ProcessFunc
	running  sync.WaitGroup
}

var _ vos.VOS = (*TestOS)(nil)

// NewDeterministicOS creates an OS rooted in the tester's home directory with
// the default programs installed under /bin. Writes to stdout and stderr are
// serialized so both may share a buffer.
func NewDeterministicOS(stdin io.Reader, stdout, stderr io.Writer) *TestOS {
	mu := &sync.Mutex{}

	t := &TestOS{
		MapEnv: vos.NewMapEnvFromEnvList([]string{
			"HOME=" + Home,
			"USER=" + User,
			"PATH=/usr/bin:/bin",
		}),
		VIO: vos.NewVIOAdapter(
			stdin,
			&lockedWriter{mu: mu, w: orDiscard(stdout)},
			&lockedWriter{mu: mu, w: orDiscard(stderr)}),
		FS:       afero.NewMemMapFs(),
		dir:      Home,
		nextPID:  100,
		programs: make(map[string]ProcessFunc),
	}

	for _, dir := range []string{Home, "/tmp", "/bin", "/usr/bin", "/var/log"} {
		_ = t.FS.MkdirAll(dir, 0755)
	}
	for name, fn := range DefaultPrograms {
		t.Install(name, fn)
	}

	return t
}

// Install adds a program at /bin/<name>.
func (t *TestOS) Install(name string, fn ProcessFunc) {
	binPath := path.Join("/bin", name)
	_ = afero.WriteFile(t.FS, binPath, []byte("#!fake\n"), 0755)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.programs[binPath] = fn
}

// Programs lists the installed program paths.
func (t *TestOS) Programs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []string
	for k := range t.programs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Hostname implements vos.VNetwork.
func (t *TestOS) Hostname() (string, error) {
	return Host, nil
}

// GetPTY implements vos.VOS.
func (t *TestOS) GetPTY() vos.PTY {
	return t.PTY
}

// Getwd implements vos.VDir.
func (t *TestOS) Getwd() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir, nil
}

// Chdir implements vos.VDir, the errors match the ones Linux produces.
func (t *TestOS) Chdir(dir string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	target := dir
	if !path.IsAbs(target) {
		target = path.Join(t.dir, target)
	}
	target = path.Clean(target)

	stat, err := t.FS.Stat(target)
	switch {
	case err != nil:
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOENT}
	case !stat.IsDir():
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}

	t.dir = target
	return nil
}

// Pipe implements vos.VProc with an in-memory pipe.
func (t *TestOS) Pipe() (io.ReadCloser, io.WriteCloser, error) {
	r, w := io.Pipe()
	return r, w, nil
}

// StartProcess implements vos.VProc. The program runs in its own goroutine
// and the owned streams are closed when it returns.
func (t *TestOS) StartProcess(name string, argv []string, attr *vos.ProcAttr) (vos.Process, error) {
	if attr == nil {
		attr = &vos.ProcAttr{}
	}
	owned := vos.ListCloser(attr.Owned)

	cwd, _ := t.Getwd()
	execPath, err := vos.LookPath(t.FS, t.Getenv("PATH"), cwd, name)
	if err != nil {
		owned.Close()
		return nil, &exec.Error{Name: name, Err: err}
	}

	t.mu.Lock()
	fn, ok := t.programs[execPath]
	t.nextPID++
	pid := t.nextPID
	t.mu.Unlock()
	if !ok {
		owned.Close()
		return nil, &exec.Error{Name: name, Err: fs.ErrPermission}
	}

	if len(argv) == 0 {
		argv = []string{name}
	}

	files := attr.Files
	if files == nil {
		files = vos.NewNullIO()
	}

	env := attr.Env
	if env == nil {
		env = t.Environ()
	}

	dir := cwd
	if attr.Dir != "" {
		dir = attr.Dir
	}

	proc := &testProcess{pid: pid, done: make(chan struct{})}
	t.running.Add(1)
	go func() {
		defer t.running.Done()
		defer close(proc.done)

		status := fn(&Proc{
			Args:   argv,
			Dir:    dir,
			Env:    vos.NewMapEnvFromEnvList(env),
			FS:     t.FS,
			Stdin:  files.Stdin(),
			Stdout: files.Stdout(),
			Stderr: files.Stderr(),
		})
		owned.Close()

		if status != 0 {
			proc.err = &vos.ExitError{Code: status}
		}
	}()

	return proc, nil
}

// Wait blocks until every started program has returned.
func (t *TestOS) Wait() {
	t.running.Wait()
}

type testProcess struct {
	pid  int
	done chan struct{}
	err  error
}

func (p *testProcess) Pid() int {
	return p.pid
}

func (p *testProcess) Wait() error {
	<-p.done
	return p.err
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(b)
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
